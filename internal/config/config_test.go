package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadSnapshotDefaults(t *testing.T) {
	t.Setenv("SNAPSHOT_PATH", "")
	t.Setenv("SNAPSHOT_KEY", "")

	cfg := Load()
	if cfg.SnapshotPath != "bodega-snapshot.json" {
		t.Fatalf("unexpected snapshot path %q", cfg.SnapshotPath)
	}
	if cfg.SnapshotKey != "bodega_v2" {
		t.Fatalf("unexpected snapshot key %q", cfg.SnapshotKey)
	}
}
