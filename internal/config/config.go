package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. All fields have
// defaults matching the Bay Middle School feed, so a config file is only
// needed to point the tool at a different organization or output path.
type Config struct {
	// BaseURL is the menus API root, without a trailing slash.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// OrgID is the school district's organization identifier in the menus API.
	OrgID string `yaml:"org_id" json:"org_id"`

	// MenuID identifies the menu (e.g. a specific school's lunch menu).
	MenuID string `yaml:"menu_id" json:"menu_id"`

	// Output is the path the generated .ics file is written to. The parent
	// directory is created if it does not exist.
	Output string `yaml:"output" json:"output"`

	// CalendarName is the X-WR-CALNAME shown by subscribing clients.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// Timezone is the X-WR-TIMEZONE label (e.g. "America/New_York"). Events
	// are all-day, so this is presentation metadata only.
	Timezone string `yaml:"timezone" json:"timezone"`

	// HTTPTimeoutSeconds bounds each API request.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds" json:"http_timeout_seconds"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://menus.healthepro.com/api",
		OrgID:              "1229",
		MenuID:             "109815",
		Output:             filepath.Join("docs", "lunch.ics"),
		CalendarName:       "Bay MS Lunch",
		Timezone:           "America/New_York",
		HTTPTimeoutSeconds: 15,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled config files still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.OrgID == "" {
		c.OrgID = def.OrgID
	}
	if c.MenuID == "" {
		c.MenuID = def.MenuID
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.CalendarName == "" {
		c.CalendarName = def.CalendarName
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = def.HTTPTimeoutSeconds
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty, the in-memory defaults are returned and no file is
//     touched.
//   - If the file does not exist, a default config is written there (parent
//     directory created, 0600 perms) and returned.
//   - Otherwise the YAML is read, unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create a default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically via
// a temp file + rename, with 0600 permissions on the result.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".lunchcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
