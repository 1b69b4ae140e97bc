package http

import (
	"log/slog"

	"github.com/identify-labs/marquee/internal/logging"
)

func nopLogger() *slog.Logger {
	return logging.NewNop()
}
