package logging

import (
	"io"
	"log/slog"
	"os"
)

// prodはJSON、それ以外は読みやすいテキストで出す
func New(goEnv string) *slog.Logger {
	return NewWithWriter(os.Stdout, goEnv)
}

func NewWithWriter(w io.Writer, goEnv string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var h slog.Handler
	if goEnv == "prod" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "storedash")
}

// テスト用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
