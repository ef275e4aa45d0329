// Package debug provides conditional debug logging for edgerecord.
//
// Debug logging is enabled by setting the EDGEREC_DEBUG environment variable:
//
//	EDGEREC_DEBUG=1 edgerecord --scenario utility
//
// The TUI owns the terminal, so messages go to a rotating file under the
// state directory ($XDG_STATE_HOME/edgerecord/debug.log). When disabled
// (default), all debug functions are no-ops.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	enabled atomic.Bool
	logger  atomic.Pointer[zap.SugaredLogger]
	once    sync.Once
)

func init() {
	if os.Getenv("EDGEREC_DEBUG") != "" {
		enabled.Store(true)
	}
}

// LogPath returns the file debug output is written to.
func LogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "edgerecord", "debug.log")
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	cfg.NameKey = ""
	cfg.CallerKey = ""
	return cfg
}

// get lazily builds the file logger on first use.
func get() *zap.SugaredLogger {
	once.Do(func() {
		if logger.Load() != nil {
			return
		}
		path := LogPath()
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 2,
			MaxAge:     7,
		})
		SetOutput(sink)
	})
	return logger.Load()
}

// SetOutput routes debug output to ws. Tests use it to capture messages.
func SetOutput(ws zapcore.WriteSyncer) {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), ws, zapcore.DebugLevel)
	logger.Store(zap.New(core).Named("edgerecord").Sugar())
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// Sync flushes buffered output. Call before exit.
func Sync() {
	if l := logger.Load(); l != nil {
		_ = l.Sync()
	}
}

// Log writes a debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	get().Debugf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	get().Debugw(name, "took", d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("reload")()
func LogEnterExit(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	l := get()
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type.
func Dump(name string, v any) {
	if !enabled.Load() {
		return
	}
	get().Debug(fmt.Sprintf("%s: %T = %+v", name, v, v))
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if !enabled.Load() {
		return
	}
	get().Debugf("=== %s ===", name)
}
