package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.Mutex
	sugar *zap.SugaredLogger
)

// Bootstrap builds the process logger. Debug mode switches to the
// development encoder with caller annotations; otherwise logs are
// production JSON at info level.
func Bootstrap(debug bool) {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.DisableCaller = true
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	sugar = logger.Sugar()
}

// S returns the process logger, bootstrapping a production logger on first
// use if Bootstrap was never called.
func S() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		logger, err := zap.NewProduction(zap.WithCaller(false))
		if err != nil {
			logger = zap.NewNop()
		}
		sugar = logger.Sugar()
	}
	return sugar
}

// Sync flushes buffered log entries; safe to call on shutdown.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
