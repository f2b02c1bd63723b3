// Package logger provides the shared zap logger used across the service.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error)
	Level string
	// ServiceName is attached to every entry
	ServiceName string
	// Development enables console encoding and stack traces on warnings
	Development bool
}

// Logger wraps zap.Logger
type Logger struct {
	*zap.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// Init initializes the global logger. It must be called once at startup
// before Get.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{Level: "info"}
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zapCfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	global = &Logger{Logger: l}
	mu.Unlock()
	return nil
}

// Get returns the global logger. Falls back to a no-op logger if Init
// was never called, so library code can log unconditionally.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return &Logger{Logger: zap.NewNop()}
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		return nil
	}
	return global.Logger.Sync()
}
