package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("TOURDESK_CONFIG_DIR", t.TempDir())

	if err := SaveConfig(&GlobalConfig{BaseURL: "http://seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := UpdateConfig(func(cfg *GlobalConfig) {
				cfg.Token = fmt.Sprintf("tok-%d", i)
			}); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent UpdateConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		t.Fatalf("config is not valid JSON: %v\n%s", err, string(b))
	}
	if cfg.BaseURL != "http://seed" {
		t.Fatalf("expected base url to survive, got %q", cfg.BaseURL)
	}
}

func TestSaveConfig_OwnerOnlyPermissions(t *testing.T) {
	t.Setenv("TOURDESK_CONFIG_DIR", t.TempDir())
	if err := SaveConfig(&GlobalConfig{Token: "secret"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	path, _ := ConfigPath()
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %o", st.Mode().Perm())
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("TOURDESK_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "" || cfg.Token != "" || cfg.TUI != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestConfigCredentials_ReadsLatestToken(t *testing.T) {
	t.Setenv("TOURDESK_CONFIG_DIR", t.TempDir())
	creds := ConfigCredentials{}

	tok, err := creds.Token(context.Background())
	if err != nil || tok != "" {
		t.Fatalf("expected empty token, got %q %v", tok, err)
	}
	if err := SaveConfig(&GlobalConfig{Token: " abc "}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	tok, _ = creds.Token(context.Background())
	if tok != "abc" {
		t.Fatalf("expected abc, got %q", tok)
	}
}

func TestGlobalConfig_GetSet(t *testing.T) {
	var cfg GlobalConfig
	if err := cfg.Set("baseUrl", "http://localhost:8080/"); err != nil {
		t.Fatalf("set baseUrl: %v", err)
	}
	if v, _ := cfg.Get("baseUrl"); v != "http://localhost:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", v)
	}
	if err := cfg.Set("tui.view", "table"); err != nil {
		t.Fatalf("set tui.view: %v", err)
	}
	if cfg.TUI == nil || cfg.TUI.View != "table" {
		t.Fatalf("expected tui.view=table, got %+v", cfg.TUI)
	}
	if err := cfg.Set("tui.view", "grid"); err == nil {
		t.Fatalf("expected invalid view to be rejected")
	}
	if err := cfg.Set("nope", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := cfg.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}
