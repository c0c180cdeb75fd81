package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls level, encoding and destination of log output.
// Output accepts "stderr" (default), "stdout" or a file path.
type Config struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Output     string `mapstructure:"output" yaml:"output"`
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"`
}

type Logger struct {
	logger zerolog.Logger
}

func New(config Config) *Logger {
	return NewWithWriter(config, openOutput(config.Output))
}

// NewWithWriter builds a logger that writes to w regardless of config.Output.
func NewWithWriter(config Config, w io.Writer) *Logger {
	level := parseLevel(config.Level)
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if config.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: getTimeFormat(config.TimeFormat),
		}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}

	return &Logger{logger: logger}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func openOutput(output string) io.Writer {
	switch output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	}
	if file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
		return file
	}
	return os.Stderr
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

func (l *Logger) Fatal(msg string) {
	l.logger.Fatal().Msg(msg)
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	logger := l.logger.With()
	for k, v := range fields {
		logger = logger.Interface(k, v)
	}
	return &Logger{logger: logger.Logger()}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func getTimeFormat(format string) string {
	if format != "" {
		return format
	}
	return time.RFC3339
}

func SetGlobalLogger(logger *Logger) {
	log.Logger = logger.logger
}
