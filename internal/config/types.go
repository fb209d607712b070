package config

// Config is the root configuration for voicedesk.
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway,omitempty"`
	Model      ModelConfig      `yaml:"model,omitempty"`
	Assistants AssistantsConfig `yaml:"assistants,omitempty"`
	Session    SessionConfig    `yaml:"session,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// GatewayConfig controls the transcript-in / speak-out WebSocket server.
type GatewayConfig struct {
	Port           int         `yaml:"port,omitempty"`
	Bind           string      `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string      `yaml:"customBindHost,omitempty"`
	Auth           GatewayAuth `yaml:"auth,omitempty"`
	AllowedOrigins []string    `yaml:"allowedOrigins,omitempty"`
	TLS            GatewayTLS  `yaml:"tls,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Mode  string `yaml:"mode,omitempty"` // "token" | "none"
	Token string `yaml:"token,omitempty"`
}

// GatewayTLS configures TLS for the gateway.
type GatewayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// ModelConfig selects and tunes the hosted decider model.
type ModelConfig struct {
	Provider    string   `yaml:"provider,omitempty"`  // "gemini" | "openai" | "anthropic"
	Name        string   `yaml:"name,omitempty"`      // provider model id, e.g. gemini-2.5-flash
	APIKey      string   `yaml:"apiKey,omitempty"`    // supports ${ENV_VAR} references
	BaseURL     string   `yaml:"baseUrl,omitempty"`   // override for OpenAI-compatible endpoints
	Fallbacks   []string `yaml:"fallbacks,omitempty"` // providers tried in order on retryable errors
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// AssistantsConfig selects which role bundle new sessions get and where
// their reference data and record files live.
type AssistantsConfig struct {
	Default    string `yaml:"default,omitempty"`    // "barista" | "wellness" | "tutor" | "sales" | "frauddesk" | "grocer"
	CatalogDir string `yaml:"catalogDir,omitempty"` // static reference data; empty = <data>/catalog
	RecordDir  string `yaml:"recordDir,omitempty"`  // JSON record files; empty = <data>/records
}

// SessionConfig defines session behavior.
type SessionConfig struct {
	Store        string `yaml:"store,omitempty"` // "memory" | "sqlite" — transcript log backend
	IdleMinutes  int    `yaml:"idleMinutes,omitempty"`
	MaxToolCalls int    `yaml:"maxToolCalls,omitempty"` // per-decision cap on tool invocations
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleLevel string `yaml:"consoleLevel,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}
