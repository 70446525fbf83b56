package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RejectsBadEnvironment(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "prod"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataDir: "/tmp/d", DownloadDir: "/tmp/dl"},
		CMS:     CMSConfig{BaseURL: "https://cms.example.com"},
	}
	assert.Error(t, cfg.Validate())

	cfg.App.Environment = "production"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "verbose"},
		Storage: StorageConfig{DataDir: "/tmp/d", DownloadDir: "/tmp/dl"},
		CMS:     CMSConfig{BaseURL: "https://cms.example.com"},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiresStorageDirs(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		CMS:    CMSConfig{BaseURL: "https://cms.example.com"},
	}
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/dharma/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "dharma", "data"), expanded)

	expanded, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("DHARMA_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "DHARMA_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "DHARMA_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "DHARMA_TEST_UNSET", "default"))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("45s", "CMS_TIMEOUT", "30s")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	_, err = parseDurationValue("not-a-duration", "CMS_TIMEOUT", "30s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nDHARMA_ENVFILE_KEY=hello\nQUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("DHARMA_ENVFILE_KEY", "")
	os.Unsetenv("DHARMA_ENVFILE_KEY")
	t.Setenv("QUOTED", "")
	os.Unsetenv("QUOTED")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("DHARMA_ENVFILE_KEY"))
	assert.Equal(t, "world", os.Getenv("QUOTED"))
}
