package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last page on
// relaunch. Callers should tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Page is the definition name of the last open page.
	Page string `json:"page,omitempty"`

	// ViewModes remembers cards/table per page.
	ViewModes map[string]string `json:"viewModes,omitempty"`
}

func tuiStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	path, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, goerr.Wrap(err, "failed to read tui state", goerr.V("path", path))
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	path, err := tuiStatePath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return goerr.Wrap(err, "failed to create config directory", goerr.V("dir", dir))
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode tui state")
	}
	if err := atomicWriteFile(dir, "tui_state.json.*.tmp", path, b, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write tui state", goerr.V("path", path))
	}
	return nil
}
