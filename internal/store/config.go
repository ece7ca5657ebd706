package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

type GlobalConfig struct {
	// BaseURL is the API root, e.g. https://api.example.com/api.
	BaseURL string `json:"baseUrl,omitempty"`

	// Token is the bearer token stored by `tourdesk login`.
	Token string `json:"token,omitempty" masq:"secret"`

	// Currency is the glyph prefixed to money values (default "₹").
	Currency string `json:"currency,omitempty"`

	// Locale drives digit grouping and string collation (BCP 47).
	Locale string `json:"locale,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// View is the initial list layout ("cards" or "table").
	View string `json:"view,omitempty"`
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tourdesk).
	if v := strings.TrimSpace(os.Getenv("TOURDESK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".tourdesk"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes the config atomically with owner-only permissions; it
// holds the API token.
func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return goerr.Wrap(err, "failed to create config dir", goerr.V("dir", dir))
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode config")
	}
	if err := atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write config", goerr.V("path", path))
	}
	return nil
}

// UpdateConfig loads, mutates and saves the config.
func UpdateConfig(fn func(cfg *GlobalConfig)) (*GlobalConfig, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	fn(cfg)
	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigCredentials reads the token from the config file on every call so a
// `tourdesk login` in another terminal takes effect immediately.
type ConfigCredentials struct{}

func (ConfigCredentials) Token(ctx context.Context) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(cfg.Token), nil
}

// Keys lists the settable config keys for `tourdesk config set`.
var Keys = []string{"baseUrl", "token", "currency", "locale", "tui.view", "tui.glyphs"}

var ErrUnknownKey = errors.New("unknown config key")

func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "baseUrl":
		return c.BaseURL, nil
	case "token":
		return c.Token, nil
	case "currency":
		return c.Currency, nil
	case "locale":
		return c.Locale, nil
	case "tui.view":
		if c.TUI == nil {
			return "", nil
		}
		return c.TUI.View, nil
	case "tui.glyphs":
		if c.TUI == nil {
			return "", nil
		}
		return c.TUI.Glyphs, nil
	}
	return "", goerr.Wrap(ErrUnknownKey, "cannot read key", goerr.V("key", key))
}

func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "baseUrl":
		c.BaseURL = strings.TrimRight(value, "/")
	case "token":
		c.Token = value
	case "currency":
		c.Currency = value
	case "locale":
		c.Locale = value
	case "tui.view":
		if value != "" && value != "cards" && value != "table" {
			return goerr.New("tui.view must be cards or table", goerr.V("value", value))
		}
		c.tui().View = value
	case "tui.glyphs":
		if value != "" && value != "unicode" && value != "ascii" {
			return goerr.New("tui.glyphs must be unicode or ascii", goerr.V("value", value))
		}
		c.tui().Glyphs = value
	default:
		return goerr.Wrap(ErrUnknownKey, "cannot set key", goerr.V("key", key))
	}
	return nil
}

func (c *GlobalConfig) tui() *TUIConfig {
	if c.TUI == nil {
		c.TUI = &TUIConfig{}
	}
	return c.TUI
}
