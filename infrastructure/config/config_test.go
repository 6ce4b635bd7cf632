package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, PersistenceMemory, cfg.Persistence)
	assert.Equal(t, "GSI1", cfg.IndexName)
	assert.True(t, cfg.WatchTechniques, "development watches the catalog")
	assert.Equal(t, 168, cfg.JWTTTLHours)
	assert.Equal(t, 1.0, cfg.DomainConfig().CompletionRatio)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9090"
streak_timezone: America/New_York
completion_ratio: 0.8
watch_techniques: false
table_name: from-file
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TABLE_NAME", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "from-env", cfg.TableName)
	assert.False(t, cfg.WatchTechniques)
	assert.Equal(t, "America/New_York", cfg.DomainConfig().Location().String())
	assert.Equal(t, 0.8, cfg.DomainConfig().CompletionRatio)
}

func TestLoadConfig_BadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "production without secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production with secret", mutate: func(c *Config) { c.Environment = "production"; c.JWTSecret = "s" }},
		{name: "unknown persistence", mutate: func(c *Config) { c.Persistence = "mongo" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.StreakTimezone = "Mars/Olympus" }, wantErr: true},
		{name: "ratio zero", mutate: func(c *Config) { c.CompletionRatio = 0 }, wantErr: true},
		{name: "ratio above one", mutate: func(c *Config) { c.CompletionRatio = 1.2 }, wantErr: true},
		{name: "loose ratio", mutate: func(c *Config) { c.CompletionRatio = 0.8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
