// Package utils holds small helpers shared by the server, the CLI and the stores.
package utils

import (
	"io"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Close discards the close error. For cleanup paths that already return an error.
func Close(c io.Closer) { _ = c.Close() }

// MustClose closes c and logs a failure at Warn under the given resource name.
func MustClose(c io.Closer, log logger.Logger, resource string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", resource), logger.Error(err))
	}
}
