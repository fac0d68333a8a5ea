package helpers

import (
	"os"
	"strings"
	"time"

	"github.com/staybright/offseason-campaigns/internal/constants"
)

// Stage constants define the possible deployment/runtime environments.
const (
	StageProd  = constants.ProdEnvironment
	StageDev   = "dev"
	StageLocal = "local"
)

// IsValidStage checks if the provided stage string is one of the defined valid stages.
func IsValidStage(stage string) bool {
	switch stage {
	case StageProd, StageDev, StageLocal:
		return true
	default:
		return false
	}
}

// IsDeployedStage reports whether the stage runs inside AWS.
func IsDeployedStage(stage string) bool {
	return stage == StageProd || stage == StageDev
}

// GetEnvWithDefault returns the trimmed environment value or the default when unset.
func GetEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration parses a duration environment variable. Unset or malformed
// values return the default and false.
func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, true
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue, false
	}
	return parsed, true
}
