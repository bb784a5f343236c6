package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Slog struct {
	l *slog.Logger
}

// New は標準出力に書き込むロガーを作成します。
// format が "json" なら JSON、それ以外はテキスト形式です。
func New(level, format string) *Slog {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter は w に書き込むロガーを作成します。
func NewWithWriter(w io.Writer, level, format string) *Slog {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Slog{l: slog.New(h)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *Slog) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *Slog) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *Slog) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *Slog) Error(msg string, args ...any) { s.l.Error(msg, args...) }
