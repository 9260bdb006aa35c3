package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Production gets JSON output at info
// level; everything else gets the human-readable development encoder.
func NewLogger() (*zap.Logger, error) {
	if IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
