package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Logger.Level)
	assert.Equal(t, DefaultAttackBaseURL, AttackBaseURL(cfg))
	assert.Equal(t, "", AttackCacheDir(cfg))
}

func TestLoadConfig(t *testing.T) {
	content := `
logger:
  level: debug
http_client:
  retry_count: 3
  timeout: 15s
  tls_client_config:
    verify: true
attack:
  base_url: https://example.com/cti
  cache_dir: /tmp/attack-cache
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 3, cfg.HttpClient.RetryCount)
	assert.Equal(t, 15*time.Second, cfg.HttpClient.Timeout)
	require.NotNil(t, cfg.HttpClient.TlsClientConfig.Verify)
	assert.True(t, *cfg.HttpClient.TlsClientConfig.Verify)
	assert.Equal(t, "https://example.com/cti", AttackBaseURL(cfg))
	assert.Equal(t, "/tmp/attack-cache", AttackCacheDir(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "zero config is valid", mutate: func(cfg *Config) {}, wantErr: false},
		{
			name:    "negative retry count",
			mutate:  func(cfg *Config) { cfg.HttpClient.RetryCount = -1 },
			wantErr: true,
		},
		{
			name:    "excessive timeout",
			mutate:  func(cfg *Config) { cfg.HttpClient.Timeout = 10 * time.Minute },
			wantErr: true,
		},
		{
			name:    "invalid base url",
			mutate:  func(cfg *Config) { cfg.Attack.BaseURL = "not a url" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBoolValue(t *testing.T) {
	truth := true
	cfg := &Config{Logger: Logger{JSONFormat: &truth}}

	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "Logger.DisableTime", true))
	assert.False(t, GetBoolValue(cfg, "Logger.Missing", false))
	assert.True(t, GetBoolValue(nil, "Logger.JSONFormat", true))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, 5, SetThen(0, 5))
	assert.Equal(t, 3, SetThen(3, 5))
	assert.Equal(t, 10*time.Second, SetThen(time.Duration(0), 10*time.Second))
}
