package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port: 18790,
			Bind: "loopback",
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		Model: ModelConfig{
			Provider:  "gemini",
			Name:      "gemini-2.5-flash",
			MaxTokens: 1024,
		},
		Assistants: AssistantsConfig{
			Default: "barista",
		},
		Session: SessionConfig{
			Store:        "memory",
			IdleMinutes:  30,
			MaxToolCalls: 8,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleLevel: "info",
			ConsoleStyle: "pretty",
		},
	}
}
