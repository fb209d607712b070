package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ParseConfigPath extended tests ---

func TestParseConfigPath_Extended(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"single segment", "gateway", []string{"gateway"}, false},
		{"two segments", "gateway.port", []string{"gateway", "port"}, false},
		{"three segments", "gateway.auth.mode", []string{"gateway", "auth", "mode"}, false},
		{"empty", "", nil, true},
		{"empty segment", "gateway..port", nil, true},
		{"leading dot", ".gateway", nil, true},
		{"trailing dot", "gateway.", nil, true},
		{"blocked __proto__", "foo.__proto__.bar", nil, true},
		{"blocked prototype", "prototype.x", nil, true},
		{"blocked constructor", "constructor", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var ce *ConfigError
				assert.ErrorAs(t, err, &ce)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// --- ResolvePaths tests ---

func TestResolvePaths_AllFields(t *testing.T) {
	t.Setenv("VOICEDESK_HOME", "")

	paths, err := ResolvePaths()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".voicedesk"), paths.Base)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "config.yaml"), paths.Config)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "data"), paths.Data)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "data", "catalog"), paths.Catalog)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "data", "records"), paths.Records)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "data", "voicedesk.db"), paths.DB)
	assert.Equal(t, filepath.Join(home, ".voicedesk", "logs"), paths.Logs)
}

func TestResolvePaths_CustomHome(t *testing.T) {
	t.Setenv("VOICEDESK_HOME", "/tmp/testvd")

	paths, err := ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/testvd", paths.Base)
	assert.Equal(t, "/tmp/testvd/config.yaml", paths.Config)
	assert.Equal(t, "/tmp/testvd/data/catalog", paths.Catalog)
	assert.Equal(t, "/tmp/testvd/data/records", paths.Records)
	assert.Equal(t, "/tmp/testvd/data/voicedesk.db", paths.DB)
}

func TestEnsureDirs_CreatesAll(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("VOICEDESK_HOME", tmpDir)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())

	for _, dir := range []string{paths.Base, paths.Data, paths.Catalog, paths.Records, paths.Logs} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("VOICEDESK_HOME", tmpDir)

	paths, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, paths.EnsureDirs()) // second call should succeed
}

// --- blockedKeys tests ---

func TestBlockedKeys(t *testing.T) {
	assert.True(t, blockedKeys["__proto__"])
	assert.True(t, blockedKeys["prototype"])
	assert.True(t, blockedKeys["constructor"])
	assert.False(t, blockedKeys["gateway"])
	assert.False(t, blockedKeys["port"])
}
