// Package log provides the process-wide logger, backed by logrus.
package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
	IsInfoEnabled() bool
}

var (
	mu      sync.RWMutex
	logger  Logger = defaultLogger()
	outputs *fanout
)

// GetLogger returns the current logger. Before Init it logs text at info
// level to stdout.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func setLogger(l Logger, out *fanout) {
	mu.Lock()
	prev := outputs
	logger, outputs = l, out
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
}

// Close releases file outputs of the current logger. Logging to stdout
// keeps working afterwards.
func Close() error {
	mu.Lock()
	out := outputs
	outputs = nil
	mu.Unlock()
	if out == nil {
		return nil
	}
	return out.Close()
}

func defaultLogger() Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	return &logrusAdapter{entry: logrus.NewEntry(l)}
}
