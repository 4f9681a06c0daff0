package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init is called.
var Log = logrus.New()

// Settings mirrors the logging block of the YAML config.
type Settings struct {
	Level  string
	Format string
	Output io.Writer
}

// Init configures Log. LOG_LEVEL and LOG_FORMAT override the settings so
// a debug run needs no config edit.
func Init(s Settings) {
	level := s.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	format := s.Format
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = env
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if s.Output != nil {
		Log.SetOutput(s.Output)
	} else {
		Log.SetOutput(os.Stdout)
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
