package main

import (
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// provideListCache 列表缓存
// redis.enabled=false时使用NopListCache,每次都查数据库
func provideListCache(cfg *config.Config, logger *zap.Logger) (appbook.ListCache, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis未启用,列表缓存关闭")
		return appbook.NopListCache{}, func() {}, nil
	}

	client, cleanup, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewListCache(client, cfg, logger), cleanup, nil
}

// provideEventPublisher 图书变更事件发布器
// mq.enabled=false时使用NopPublisher
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (appbook.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return appbook.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	return publisher, cleanup, nil
}
