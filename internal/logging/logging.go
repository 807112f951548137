// Package logging holds the process-wide logger. The engine is a library: it defaults to a no-op logger and stays silent unless the embedding program installs
// one (the CLI does so behind --verbose).
package logging

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// L returns the current logger.
func L() *zap.Logger { return logger }

// SetLogger replaces the current logger. Pass nil to silence logging again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
