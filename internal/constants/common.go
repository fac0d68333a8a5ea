package constants

// Common string constants used throughout the codebase
const (
	// Service name attached to structured log lines
	ServiceName = "offseason-campaigns"

	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"
)
