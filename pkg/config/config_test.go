package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aqua-invoicing/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Admin", c.Auth.ID)
	assert.Equal(t, "123", c.Auth.Secret)
	assert.Equal(t, 2, c.Render.MinRows)
	assert.Equal(t, 0.3, c.Render.PDF.MarginInches)
	assert.Equal(t, 2.0, c.Render.PDF.Scale)
	assert.Equal(t, 0.95, c.Render.PDF.JPEGQuality)
	assert.Len(t, c.Company.Banks, 2)
}

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9090"
  write_timeout: 45s
render:
  min_rows: 6
  pdf:
    jpeg_quality: 0.8
company:
  name: "STARLINK JEWELS"
  address:
    - "Surat Gujarat India."
  notes:
    - "Goods remain ours until paid."
  banks:
    - account_name: "STARLINK JEWELS"
      bank_name: "HDFC BANK"
`), 0o600))

	c, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Server.Address)
	assert.Equal(t, 45*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, 6, c.Render.MinRows)
	assert.Equal(t, 0.8, c.Render.PDF.JPEGQuality)
	assert.Equal(t, "A4", c.Render.PDF.PageSize)
	assert.Equal(t, "STARLINK JEWELS", c.Company.Name)
	assert.Equal(t, []string{"Surat Gujarat India."}, c.Company.Address)
	assert.Equal(t, []string{"Goods remain ours until paid."}, c.Company.Notes)
	assert.Equal(t, []render.BankAccount{{AccountName: "STARLINK JEWELS", BankName: "HDFC BANK"}}, c.Company.Banks)
	// the configured company replaces the default letterhead entirely
	assert.Empty(t, c.Company.Email)
	assert.Empty(t, c.Company.Disclaimer)
}

func TestNewConfigWithoutCompanyKeepsDefaultProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))

	c, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultProfile(), c.Company)
}

func TestNewConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	t.Setenv("AQUA_AUTH_SECRET", "s3cret")
	t.Setenv("AQUA_SESSION_TTL", "1h")

	c, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", c.Auth.Secret)
	assert.Equal(t, time.Hour, c.Session.TTL)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"postgres without dsn", "session:\n  store: postgres\n"},
		{"unknown store", "session:\n  store: redis\n"},
		{"bucket without region", "archive:\n  bucket: invoices\n"},
		{"bad quality", "render:\n  pdf:\n    jpeg_quality: 1.5\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"missing font", "render:\n  pdf:\n    font_path: /nonexistent/NotoSansHK.ttf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			_, err := NewConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestNewConfigMissingExplicitFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
