package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is used by frontends that cannot write to the terminal
const LogFileName = "vrca-downloader.log"

func New(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(h)
}

// NewFile opens (appending) a log file in the user cache dir. When that fails
// the logger discards output; the returned closer is always safe to call.
func NewFile(level string) (*slog.Logger, func() error) {
	dir, err := os.UserCacheDir()
	if err == nil {
		dir = filepath.Join(dir, "vrca-downloader")
		err = os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return New(io.Discard, level), func() error { return nil }
	}

	f, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return New(io.Discard, level), func() error { return nil }
	}
	return New(f, level), f.Close
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return New(io.Discard, "error")
}

func MaskToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return ""
	}
	if len(tok) <= 8 {
		return "***"
	}
	return tok[:3] + "***" + tok[len(tok)-3:]
}
