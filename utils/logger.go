package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger; "prod"/"production" selects JSON output.
func NewLogger(mode string) (*zap.Logger, error) {
	switch strings.ToLower(mode) {
	case "prod", "production":
		return zap.NewProduction()
	case "test", "nop":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
