package internal

import "os"

// LogConfig holds the logging subsystem's own configuration, kept separate
// from downloader.Config: logging is an ambient, process-wide concern,
// while downloader.Config is an explicit value threaded into a single
// Coordinator instance.
type LogConfig struct {
	LogLevel    string
	EnableDebug bool
	QuietMode   bool
	LogFile     string
}

// DefaultLogConfig returns the logger's baseline configuration.
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "",
	}
}

// LoadFromEnv overlays environment variable values onto the config.
func (c *LogConfig) LoadFromEnv() {
	if logLevel := os.Getenv("SEGFETCH_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if debug := os.Getenv("SEGFETCH_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}
	if quiet := os.Getenv("SEGFETCH_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}
	if logFile := os.Getenv("SEGFETCH_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
}

// GetEnvWithDefault returns an environment variable value or a default.
func GetEnvWithDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
