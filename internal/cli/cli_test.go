package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, dryRun, logLevel = "", false, ""
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devpool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gh-devpool version dev")
}

func TestConfigValidateCmd(t *testing.T) {
	valid := writeConfig(t, `
projects:
  urls:
    - https://github.com/acme/app
`)
	out, err := execute(t, "config", "validate", "--config", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid!")
	assert.Contains(t, out, "https://github.com/ubiquity/devpool-directory")

	invalid := writeConfig(t, `
projects:
  urls: []
`)
	out, err = execute(t, "config", "validate", "--config", invalid)
	require.Error(t, err)
	assert.Contains(t, out, "projects.urls")
}

func TestNewLogger_FlagBeatsConfig(t *testing.T) {
	cfg, err := loadConfigFrom(t, "log_level: error\nprojects:\n  urls: [https://github.com/acme/app]\n")
	require.NoError(t, err)

	logLevel = "debug"
	t.Cleanup(func() { logLevel = "" })

	var buf bytes.Buffer
	logger, _, err := newLogger(&buf, cfg)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	logLevel = "loud"
	_, _, err = newLogger(&buf, cfg)
	assert.Error(t, err)
}

func loadConfigFrom(t *testing.T, content string) (*config.Config, error) {
	t.Helper()
	cfgFile = writeConfig(t, content)
	t.Cleanup(func() { cfgFile = "" })
	return loadConfig()
}
