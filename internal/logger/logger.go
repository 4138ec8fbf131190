// internal/logger/logger.go
//
// Structured logger (Zap + Lumberjack).
//
// Context
// -------
// guacenv logs progress to stderr so stdout stays clean for `initdb`
// output.  When a log directory is configured the same events are also
// written as JSON to <dir>/guacenv.log, rotated by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level)
//	if err != nil { … }
//	log.Infow("backend associated", "backend", "mysql")
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var encCfg = zapcore.EncoderConfig{
	TimeKey:      "ts",
	LevelKey:     "level",
	MessageKey:   "msg",
	CallerKey:    "caller",
	EncodeTime:   zapcore.ISO8601TimeEncoder,
	EncodeLevel:  zapcore.LowercaseLevelEncoder,
	EncodeCaller: zapcore.ShortCallerEncoder,
}

// Console installs and returns a stderr-only logger at info level.  The CLI
// uses it until configuration is loaded.
func Console() *zap.SugaredLogger {
	z := build(os.Stderr, nil, zap.InfoLevel)
	zap.ReplaceGlobals(z.Desugar())
	return z
}

// New returns a *zap.SugaredLogger writing console lines to stderr and,
// when logDir is non-empty, JSON to a rotating file inside it.  The logger
// is installed as the process-wide default via zap.ReplaceGlobals.
func New(logDir, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return newWithConsole(os.Stderr, logDir, lvl)
}

func newWithConsole(console io.Writer, logDir string, lvl zapcore.Level) (*zap.SugaredLogger, error) {
	var sink zapcore.WriteSyncer
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, "guacenv.log"),
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	z := build(console, sink, lvl)
	zap.ReplaceGlobals(z.Desugar())
	return z, nil
}

func build(console io.Writer, file zapcore.WriteSyncer, lvl zapcore.Level) *zap.SugaredLogger {
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), lvl),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), file, lvl))
	}
	return zap.New(zapcore.NewTee(cores...), zap.ErrorOutput(zapcore.AddSync(console))).Sugar()
}
