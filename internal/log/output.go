package log

import (
	"io"

	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/pktcraft/internal/config"
)

// fanout writes every entry to all outputs. A failing output does not stop
// the others; the last error is reported.
type fanout struct {
	writers []io.Writer
	closers []io.Closer
}

func (f *fanout) Write(p []byte) (n int, err error) {
	for _, w := range f.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

func (f *fanout) add(w io.Writer) *fanout {
	f.writers = append(f.writers, w)
	return f
}

// addRotatingFile appends a lumberjack-backed file output.
func (f *fanout) addRotatingFile(fc config.FileOutputConfig) *fanout {
	lj := &lumberjack.Logger{
		Filename:   fc.Path,
		MaxSize:    fc.Rotation.MaxSizeMB,  // megabytes
		MaxBackups: fc.Rotation.MaxBackups, // number of backups
		MaxAge:     fc.Rotation.MaxAgeDays, // days
		Compress:   fc.Rotation.Compress,
	}
	f.writers = append(f.writers, lj)
	f.closers = append(f.closers, lj)
	return f
}

// Close releases file outputs; stdout is never closed.
func (f *fanout) Close() error {
	var err error
	for _, c := range f.closers {
		err = multierr.Append(err, c.Close())
	}
	f.closers = nil
	return err
}
