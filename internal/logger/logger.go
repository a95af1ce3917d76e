package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/polkiloo/restock/internal/config"
)

const (
	defaultLogFilename   = "restock.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// New creates a preconfigured zap logger. Debug mode writes human readable
// lines to stdout; any other mode writes JSON to a rotated file when a log
// directory is configured and to stdout otherwise.
func New(cfg config.LogConfig) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(cfg.Mode), "debug")
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if debug {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
		return zap.New(core, zap.AddCaller())
	}

	sink := zapcore.AddSync(os.Stdout)
	if strings.TrimSpace(cfg.Dir) != "" {
		fileSink, err := newFileWriteSyncer(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger init failed, fallback to stdout: %v\n", err)
		} else {
			sink = fileSink
		}
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, level)
	return zap.New(core, zap.AddCaller())
}

func newFileWriteSyncer(cfg config.LogConfig) (zapcore.WriteSyncer, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	filename := strings.TrimSpace(cfg.Filename)
	if filename == "" {
		filename = defaultLogFilename
	}
	path := filepath.Join(dir, filename)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close log file: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(cfg.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: positiveOr(cfg.MaxBackups, defaultLogMaxBackups),
		MaxAge:     positiveOr(cfg.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   cfg.Compress,
	}), nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
