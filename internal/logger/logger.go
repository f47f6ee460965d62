// Package logger builds the slog loggers used across ejobs.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"

	"github.com/justsurfingit/ejobs/internal/config"
)

// New returns a console (text, stdout) or file (JSON, rotated) logger
// depending on settings.
func New(settings *config.LoggerSettings) (*slog.Logger, error) {
	return NewWriter(settings, os.Stdout)
}

// NewWriter is New with console output sent to console instead of stdout.
// The admin CLI uses it to keep logs off its own output.
func NewWriter(settings *config.LoggerSettings, console io.Writer) (*slog.Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(settings.LogLevel)}

	switch settings.LogType {
	case config.LogTypeConsole:
		return slog.New(slog.NewTextHandler(console, opts)), nil
	case config.LogTypeFile:
		writer := &lumberjack.Logger{
			Filename:   settings.FilePath,
			MaxSize:    settings.MaxSize,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAge,
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(writer, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log type: %s", settings.LogType)
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
