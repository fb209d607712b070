package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_ValidDefaults(t *testing.T) {
	cfg := Defaults()
	issues := Validate(&cfg)
	assert.Empty(t, issues)
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Defaults()

	cfg.Gateway.Port = -1
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "gateway.port")

	cfg.Gateway.Port = 70000
	issues = Validate(&cfg)
	assert.NotEmpty(t, issues)
}

func TestValidate_ValidPort(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.Port = 0
	assert.Empty(t, Validate(&cfg))

	cfg.Gateway.Port = 65535
	assert.Empty(t, Validate(&cfg))

	cfg.Gateway.Port = 8080
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_InvalidBind(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.Bind = "invalid"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "gateway.bind")
}

func TestValidate_ValidBinds(t *testing.T) {
	for _, bind := range []string{"loopback", "lan", "custom", ""} {
		cfg := Defaults()
		cfg.Gateway.Bind = bind
		assert.Empty(t, Validate(&cfg), "bind %q should be valid", bind)
	}
}

func TestValidate_InvalidAuthMode(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.Auth.Mode = "oauth"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "gateway.auth.mode")
}

func TestValidate_ValidAuthModes(t *testing.T) {
	for _, mode := range []string{"token", "none", ""} {
		cfg := Defaults()
		cfg.Gateway.Auth.Mode = mode
		assert.Empty(t, Validate(&cfg), "auth mode %q should be valid", mode)
	}
}

func TestValidate_TLSRequiresPaths(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.TLS.Enabled = true
	issues := Validate(&cfg)
	assert.Len(t, issues, 2)

	var paths []string
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}
	assert.Contains(t, paths, "gateway.tls.certPath")
	assert.Contains(t, paths, "gateway.tls.keyPath")
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := Defaults()
	cfg.Model.Provider = "llamacpp"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "model.provider")
}

func TestValidate_ValidProviders(t *testing.T) {
	for _, p := range []string{"gemini", "openai", "anthropic", ""} {
		cfg := Defaults()
		cfg.Model.Provider = p
		assert.Empty(t, Validate(&cfg), "provider %q should be valid", p)
	}
}

func TestValidate_InvalidFallback(t *testing.T) {
	cfg := Defaults()
	cfg.Model.Fallbacks = []string{"openai", "bogus"}
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "model.fallbacks[1]")
}

func TestValidate_InvalidAssistant(t *testing.T) {
	cfg := Defaults()
	cfg.Assistants.Default = "plumber"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "assistants.default")
}

func TestValidate_ValidAssistants(t *testing.T) {
	for _, a := range []string{"barista", "wellness", "tutor", "sales", "frauddesk", "grocer", ""} {
		cfg := Defaults()
		cfg.Assistants.Default = a
		assert.Empty(t, Validate(&cfg), "assistant %q should be valid", a)
	}
}

func TestValidate_InvalidSessionStore(t *testing.T) {
	cfg := Defaults()
	cfg.Session.Store = "redis"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "session.store")
}

func TestValidate_ValidSessionStores(t *testing.T) {
	for _, store := range []string{"memory", "sqlite", ""} {
		cfg := Defaults()
		cfg.Session.Store = store
		assert.Empty(t, Validate(&cfg), "store %q should be valid", store)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "logging.level")
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"silent", "fatal", "error", "warn", "info", "debug", "trace", ""} {
		cfg := Defaults()
		cfg.Logging.Level = level
		cfg.Logging.ConsoleLevel = level
		assert.Empty(t, Validate(&cfg), "log level %q should be valid", level)
	}
}

func TestValidate_InvalidConsoleStyle(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.ConsoleStyle = "fancy"
	issues := Validate(&cfg)
	assert.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Path, "logging.consoleStyle")
}

func TestValidate_MultipleIssues(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.Port = -1
	cfg.Model.Provider = "invalid"
	cfg.Logging.Level = "verbose"

	issues := Validate(&cfg)
	assert.GreaterOrEqual(t, len(issues), 3)
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{
		Path:    "gateway.port",
		Message: "port must be 0-65535, got -1",
	}
	assert.Equal(t, "gateway.port: port must be 0-65535, got -1", issue.String())
}
