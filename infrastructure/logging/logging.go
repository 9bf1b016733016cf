// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File, when set, receives a copy of the console output with rotation.
	File string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// runIDHook stamps every entry of one run with the same id
type runIDHook struct {
	id string
}

func (h runIDHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h runIDHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["run"]; !ok {
		entry.Data["run"] = h.id
	}
	return nil
}

// New - creates the logger and returns the run id it stamps, plus a closer for the
// log file
func New(opts Options, console io.Writer) (*logrus.Logger, string, io.Closer, error) {
	if console == nil {
		console = os.Stdout
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, "", nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(console, file))
		closer = file
	} else {
		logger.SetOutput(console)
	}

	runID := uuid.NewString()
	logger.AddHook(runIDHook{id: runID})
	return logger, runID, closer, nil
}
