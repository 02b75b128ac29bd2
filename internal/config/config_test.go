package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolveBackendURL(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		explicit string
		env      map[string]string
		fileURL  string
		want     string
	}{
		{name: "default", want: "http://localhost:8000"},
		{name: "env override", env: map[string]string{BackendURLEnv: "https://api.example.com"}, want: "https://api.example.com"},
		{name: "empty env is unset", env: map[string]string{BackendURLEnv: ""}, want: "http://localhost:8000"},
		{name: "file value", fileURL: "http://trials.internal:9000", want: "http://trials.internal:9000"},
		{name: "env beats file", fileURL: "http://trials.internal:9000", env: map[string]string{BackendURLEnv: "https://api.example.com"}, want: "https://api.example.com"},
		{name: "explicit beats env", explicit: "http://127.0.0.1:1", env: map[string]string{BackendURLEnv: "https://api.example.com"}, want: "http://127.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			if tt.fileURL != "" {
				c.Backend.URL = tt.fileURL
			}
			assert.Equal(t, tt.want, c.ResolveBackendURL(tt.explicit, envMap(tt.env)))
		})
	}
}

func TestResolveBackendURLNilConfig(t *testing.T) {
	var c *Config
	assert.Equal(t, DefaultBackendURL, c.ResolveBackendURL("", nil))
}

func TestRequestTimeout(t *testing.T) {
	c := DefaultConfig()
	assert.Zero(t, c.RequestTimeout())

	c.Backend.Timeout = "15s"
	assert.Equal(t, 15*time.Second, c.RequestTimeout())

	c.Backend.Timeout = "soon"
	assert.Zero(t, c.RequestTimeout())

	c.Backend.Timeout = "-1s"
	assert.Zero(t, c.RequestTimeout())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.Backend.URL = "https://api.example.com"
	cfg.UI.ShowIDIndex = false
	cfg.History.Recent = []string{"asthma", "copd"}

	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPathMissing(t *testing.T) {
	svc := NewConfigService("")
	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"http://x:1\"\n"), 0644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://x:1", cfg.Backend.URL)
	assert.Equal(t, 128, cfg.Backend.DetailCacheSize)
	assert.Equal(t, 5, cfg.UI.SuggestionLimit)
	assert.True(t, cfg.UI.ShowIDIndex)
}

func TestLoadTruncatesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[history]\nmax_entries = 2\nrecent = [\"a\", \"b\", \"c\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.History.Recent)
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = ["), 0644))

	_, err := NewConfigService(path).Load()
	assert.Error(t, err)
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	t.Setenv(ConfigPathEnv, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", DefaultPath())
	assert.Equal(t, "/tmp/custom.toml", NewConfigService("").Path())
}
