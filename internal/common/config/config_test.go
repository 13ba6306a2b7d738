package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "", cfg.NATS.URL)
	assert.Equal(t, DefaultMaxFileSizeBytes, cfg.Attachments.MaxFileSizeBytes)
	assert.Equal(t, DefaultMaxFileNameLength, cfg.Attachments.MaxFileNameLength)
	assert.Equal(t, DefaultAllowedMimeTypes, cfg.Attachments.AllowedMimeTypes)
	assert.Equal(t, "uploads", cfg.Attachments.UploadsPath)
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadWithPath_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9191
attachments:
  maxFileSizeBytes: 2048
  allowedMimeTypes: ["image/png"]
  webRoot: /srv/www
seed:
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := LoadWithPath(dir)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Attachments.MaxFileSizeBytes)
	assert.Equal(t, []string{"image/png"}, cfg.Attachments.AllowedMimeTypes)
	assert.Equal(t, "/srv/www", cfg.Attachments.WebRoot)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoadWithPath_EnvOverride(t *testing.T) {
	t.Setenv("TASKBOARD_SERVER_PORT", "7070")
	t.Setenv("TASKBOARD_ATTACHMENTS_WEB_ROOT", "/tmp/web")

	cfg, err := LoadWithPath(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/web", cfg.Attachments.WebRoot)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Logging: LoggingConfig{Level: "info", Format: "json"},
			Attachments: AttachmentsConfig{
				MaxFileSizeBytes:  DefaultMaxFileSizeBytes,
				MaxFileNameLength: DefaultMaxFileNameLength,
				AllowedMimeTypes:  DefaultAllowedMimeTypes,
				UploadsPath:       DefaultUploadsPath,
				WebRoot:           "./wwwroot",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero max size", func(c *Config) { c.Attachments.MaxFileSizeBytes = 0 }, "maxFileSizeBytes"},
		{"no mime types", func(c *Config) { c.Attachments.AllowedMimeTypes = nil }, "allowedMimeTypes"},
		{"slash uploads path", func(c *Config) { c.Attachments.UploadsPath = "/" }, "uploadsPath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
