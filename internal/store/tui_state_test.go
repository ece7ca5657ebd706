package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTUIState_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TOURDESK_CONFIG_DIR", dir)

	// Missing file => default state.
	st0, err := LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &TUIState{
		Version:   1,
		Page:      "hotel-bookings",
		ViewModes: map[string]string{"customers": "table"},
	}
	if err := SaveTUIState(want); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	got, err := LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("state mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}

	// Corrupted file => default state.
	if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err = LoadTUIState()
	if err != nil || got.Page != "" {
		t.Fatalf("expected default state for corrupted file; got %#v %v", got, err)
	}
}
