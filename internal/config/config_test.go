package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:9090/api", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.GetTimeout())
	assert.Equal(t, 10, cfg.UI.PerPage)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8081"
database:
  driver: postgres
  dsn: "host=localhost user=stock dbname=stock"
client:
  timeout: 750ms
ui:
  per_page: 25
logging:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Client.GetTimeout())
	assert.Equal(t, 25, cfg.UI.PerPage)
	assert.Equal(t, "console", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, "http://localhost:9090/api", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Server.GetShutdownTimeout())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [unterminated"), 0o644))
	_, err = Load(broken)
	require.ErrorContains(t, err, "failed to parse config file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("database:\n  driver: oracle\n"), 0o644))
	_, err = Load(invalid)
	require.ErrorContains(t, err, "database.driver 'oracle'")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Addr = ""
	cfg.Client.Timeout = "soon"
	cfg.UI.PerPage = 1000

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr is required")
	assert.Contains(t, err.Error(), "client.timeout")
	assert.Contains(t, err.Error(), "ui.per_page")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Database.Seed = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMustDuration_FallsBack(t *testing.T) {
	assert.Equal(t, time.Second, mustDuration("", time.Second))
	assert.Equal(t, time.Second, mustDuration("nope", time.Second))
	assert.Equal(t, time.Second, mustDuration("-3s", time.Second))
	assert.Equal(t, 2*time.Minute, mustDuration("2m", time.Second))
}
