package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStore(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateAndListSnapshots(t *testing.T) {
	dir := t.TempDir()
	store := writeStore(t, dir, "store.json", `{"three-things-entries":"[]"}`)

	m := NewManager(store)
	path, err := m.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"three-things-entries":"[]"}` {
		t.Errorf("snapshot content differs: %q", data)
	}

	snapshots, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}
	if snapshots[0].Path != path {
		t.Errorf("listed path %q, created %q", snapshots[0].Path, path)
	}
}

func TestCreateWithoutStoreFails(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := m.Create(); err == nil {
		t.Error("expected create to fail without a store file")
	}
}

func TestCreateGeneratesUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store := writeStore(t, dir, "store.json", "{}")

	m := NewManager(store)
	first, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two snapshots in the same second must not collide")
	}

	snapshots, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(snapshots))
	}
}

func TestRestoreKeepsCurrentStore(t *testing.T) {
	dir := t.TempDir()
	store := writeStore(t, dir, "store.json", "original")

	m := NewManager(store)
	snap, err := m.Create()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(store, []byte("clobbered"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := m.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	data, err := os.ReadFile(store)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("store not restored: %q", data)
	}

	// Restore itself snapshots the clobbered store first.
	snapshots, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) < 2 {
		t.Errorf("expected the pre-restore snapshot kept, got %d", len(snapshots))
	}
}

func TestRestoreMissingSnapshotFails(t *testing.T) {
	dir := t.TempDir()
	store := writeStore(t, dir, "store.json", "x")
	m := NewManager(store)
	if err := m.Restore(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected restore of a missing snapshot to fail")
	}
}
