package gormstore

import (
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// newGormLogger 把GORM日志桥接到zap
// debug模式打印全部SQL，其余模式只记录慢查询和错误
func newGormLogger(logger *zap.Logger, mode string) gormlogger.Interface {
	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}

	return gormlogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // 按书名查不到是正常业务分支
			Colorful:                  false,
		},
	)
}
