package logging

import (
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// InitLogging initializes logging
func InitLogging(mode string) {
	var base *zap.Logger
	if mode == "release" {
		base, _ = zap.NewProduction()
	} else {
		base, _ = zap.NewDevelopment()
	}
	logger = base.Sugar()
}

// Infof logs info level messages
func Infof(format string, v ...interface{}) {
	if logger != nil {
		logger.Infof(format, v...)
	}
}

// Warnf logs warning level messages
func Warnf(format string, v ...interface{}) {
	if logger != nil {
		logger.Warnf(format, v...)
	}
}

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) {
	if logger != nil {
		logger.Errorf(format, v...)
	}
}

// Sync flushes buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
