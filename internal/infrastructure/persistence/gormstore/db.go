package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择方言（mysql / postgres / sqlite）
// 2. 开启TranslateError，唯一索引冲突统一翻译为gorm.ErrDuplicatedKey
// 3. 配置连接池参数，sqlite固定单连接
// 4. 启动时自动建表（books表不存在时创建）
//
// 返回的cleanup关闭连接池，由wire在进程退出时调用
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	// 1. 选择方言
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	// 2. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logger, cfg.Server.Mode),
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite写入串行；:memory:库只存在于单个连接内，连接不能被回收
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}

	// 4. 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 5. 自动建表
	if err := autoMigrate(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))
	return db, cleanup, nil
}

// openDialector 按驱动返回GORM方言
func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// autoMigrate 自动迁移表结构
// AutoMigrate只创建表、添加字段和索引，不会删除现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&BookModel{})
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，domain/book/entity.go是不依赖GORM的领域实体
// 2. title唯一索引保证并发创建同名图书时只有一条成功
// 3. 没有软删除字段，删除即物理删除
type BookModel struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"uniqueIndex:uk_books_title;size:255;not null"`
	Author    string  `gorm:"index;size:255;not null"`
	Year      int     `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// Pinger 数据库健康检查
type Pinger struct {
	db *gorm.DB
}

// NewPinger 创建健康检查器
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping 检查数据库连接是否可用
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
