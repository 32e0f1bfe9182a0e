// Package obs implements observability (C11): a rotating JSON-per-line log,
// correlation ids, and an optional compact stderr mirror.
//
// The zap.Config construction is grounded on NGOClaw's logger.NewLogger
// (gateway/internal/infrastructure/logger/logger.go: level/format/output
// parsed into a zap.Config); the rotation itself comes from
// gopkg.in/natefinch/lumberjack.v2, wired in as a zapcore.WriteSyncer since
// none of the example repos rotate their own log files.
package obs

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the narrow structured-logging facade used across the module
// (executor.Logger and sysops' logging callbacks are satisfied by it).
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config configures the rotating JSON log plus the optional stderr mirror.
type Config struct {
	Dir       string // directory holding logs/*.jsonl
	Level     string // debug, info, warn, error
	Format    string // json or console
	MirrorEnv string // env var name that, if set, enables the compact stderr mirror
}

type zapLogger struct {
	z *zap.SugaredLogger
}

func (l *zapLogger) Infof(format string, args ...any)  { l.z.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.z.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.z.Errorf(format, args...) }

// New builds the structured logger: JSON-per-line to a rotating file under
// cfg.Dir/logs with RFC 3339 timestamps (or zap's development console
// encoding in that same file when cfg.Format is "console"), and (when
// cfg.MirrorEnv is set in the
// environment) a second, compact core mirroring every record to stderr in
// the "SS.mmm|L|C|message" form (§4.11).
func New(cfg Config) (Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "logs"), 0o755); err != nil {
		return nil, nil, err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(devCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "logs", "scriptkit.jsonl"),
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(rotator), level),
	}
	if cfg.MirrorEnv != "" && os.Getenv(cfg.MirrorEnv) != "" {
		cores = append(cores, newMirrorCore(level))
	}

	z := zap.New(zapcore.NewTee(cores...))
	sugar := z.Sugar()

	closer := func() error {
		_ = z.Sync()
		return rotator.Close()
	}
	return &zapLogger{z: sugar}, closer, nil
}
