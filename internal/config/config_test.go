package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://menus.healthepro.com/api", cfg.BaseURL)
	assert.Equal(t, "1229", cfg.OrgID)
	assert.Equal(t, "109815", cfg.MenuID)
	assert.Equal(t, filepath.Join("docs", "lunch.ics"), cfg.Output)
	assert.Equal(t, "Bay MS Lunch", cfg.CalendarName)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 15, cfg.HTTPTimeoutSeconds)
}

func TestLoadMissingFileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "lunchcal.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1229", cfg.OrgID)

	// The file must now exist with restricted permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadPartialFileNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunchcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("org_id: \"42\"\nmenu_id: \"777\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "42", cfg.OrgID)
	assert.Equal(t, "777", cfg.MenuID)
	// Unset fields fall back to defaults.
	assert.Equal(t, "https://menus.healthepro.com/api", cfg.BaseURL)
	assert.Equal(t, 15, cfg.HTTPTimeoutSeconds)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunchcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("org_id: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lunchcal.yaml")

	in := DefaultConfig()
	in.OrgID = "9999"
	in.Output = "out/feed.ics"
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
