package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/state")
	t.Setenv("KOMMO_BASE_URL", "https://hotel.kommo.com/api/v4")
	t.Setenv("KOMMO_API_TOKEN", "tok")
}

func TestLoad_EnvAndDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("MAIL_HOST", "smtp.local")
	t.Setenv("MAIL_RECIPIENTS", "ops@hotel.test, revenue@hotel.test")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 200, cfg.Sync.IdentityBatchSize)
	assert.Equal(t, 50, cfg.Sync.ExtractBatchSize)
	assert.Equal(t, "postgres://u:p@localhost:5432/state", cfg.Database.PMS())
	assert.Equal(t, []string{"ops@hotel.test", "revenue@hotel.test"}, cfg.Mail.RecipientList())
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequiredEnv(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  identity_batch_size: 100\ndatabase:\n  pms_url: postgres://pms\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Sync.IdentityBatchSize)
	assert.Equal(t, "postgres://pms", cfg.Database.PMS())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("CONFIG_PATH", "/nao/existe.yaml")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_DefaultYAMLWithEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("sync:\n  identity_batch_size: 120\n  extract_batch_size: 30\n"), 0o600))
	t.Setenv("SYNC_EXTRACT_BATCH_SIZE", "25")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Sync.IdentityBatchSize)
	assert.Equal(t, 25, cfg.Sync.ExtractBatchSize, "ambiente vence o YAML")
}

func TestLoad_DotEnvKeepsExportedVars(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Cleanup(func() {
		_ = os.Unsetenv("MAIL_HOST")
		_ = os.Unsetenv("MAIL_RECIPIENTS")
	})
	require.NoError(t, os.WriteFile(".env", []byte("MAIL_HOST=smtp.dotenv\nMAIL_RECIPIENTS=ops@hotel.test\nKOMMO_API_TOKEN=do-dotenv\n"), 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "smtp.dotenv", cfg.Mail.Host)
	assert.Equal(t, "tok", cfg.CRM.Token)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Port: 8080},
		CRM:    CRMConfig{BaseURL: "https://x.kommo.com", Concurrency: 4},
		Sync:   SyncConfig{IdentityBatchSize: 200, StayBatchSize: 200, ExtractBatchSize: 50},
	}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.CRM.BaseURL = "kommo"
	bad.Sync.StayBatchSize = 0
	bad.Mail.Host = "smtp.local"
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm.base_url")
	assert.Contains(t, err.Error(), "lote")
	assert.Contains(t, err.Error(), "mail.recipients")
}

func TestLoadAgentRules_RepoFile(t *testing.T) {
	rules, err := LoadAgentRules(filepath.Join("..", "..", "config", "agent_rules.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "2026.1", rules.Version)
	assert.Contains(t, rules.BookingProxyMarkers, "guest.booking.com")
	assert.Contains(t, rules.AgentKeywords, "despegar")
}

func TestLoadAgentRules_MissingFileFallsBack(t *testing.T) {
	rules, err := LoadAgentRules(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "builtin", rules.Version)
}

func TestParseAgentRules_Invalid(t *testing.T) {
	_, err := ParseAgentRules([]byte("agent_keywords: [travel]\n"))
	assert.ErrorContains(t, err, "version")

	_, err = ParseAgentRules([]byte("version: x\n"))
	assert.ErrorContains(t, err, "nenhuma regra")

	_, err = ParseAgentRules([]byte("version: [\n"))
	assert.Error(t, err)
}
