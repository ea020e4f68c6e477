package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DriverTOML, cfg.StorageDriver)
	assert.Equal(t, filepath.Join(home, ".coach", "state.toml"), cfg.StoragePath)
	assert.Zero(t, cfg.RemoteTimeout)
}

func TestLoadSQLiteDefaultPath(t *testing.T) {
	t.Setenv("COACH_STORAGE_DRIVER", "SQLite")
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, filepath.Join(home, ".coach", "state.db"), cfg.StoragePath)
}

func TestLoadConfigFileThenEnvOverride(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".coach"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".coach", "config.toml"), []byte(`
[api]
url = "https://coach.example.com"

[remote]
timeout = "30s"
`), 0o600))
	t.Setenv("COACH_REMOTE_TIMEOUT", "5s")

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, "https://coach.example.com", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
}

func TestLoadEnvFile(t *testing.T) {
	home := t.TempDir()
	envFile := filepath.Join(home, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("COACH_API_URL=http://10.0.0.2:9000\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("COACH_API_URL") })

	cfg, err := Load(home, envFile, filepath.Join(home, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:9000", cfg.APIURL)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad scheme", env: map[string]string{"COACH_API_URL": "ftp://host"}, wantErr: "api.url must be an http(s) url"},
		{name: "no host", env: map[string]string{"COACH_API_URL": "http://"}, wantErr: "api.url must be an http(s) url"},
		{name: "unknown driver", env: map[string]string{"COACH_STORAGE_DRIVER": "redis"}, wantErr: `unsupported storage.driver "redis"`},
		{name: "negative timeout", env: map[string]string{"COACH_REMOTE_TIMEOUT": "-1s"}, wantErr: "remote.timeout cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
