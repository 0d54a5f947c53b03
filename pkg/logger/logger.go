package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例
var Log *zap.Logger

// Init 初始化日志
// env 为 "prod" 时使用 JSON 格式，其他环境使用控制台格式
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)

	if env == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build(zap.AddCaller())
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}

	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	Log = l
	zap.ReplaceGlobals(l)
}

// Sync 刷新缓冲区，应在程序退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
