package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestFileGatewayLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	gw := NewFileGateway(path)

	if err := gw.Load(); err == nil {
		t.Error("expected load before init to fail")
	}

	if err := gw.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := gw.Init(); err == nil {
		t.Error("expected second init to fail")
	}

	if err := gw.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := gw.Set("greeting", "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh gateway over the same file should see the value.
	gw2 := NewFileGateway(path)
	if err := gw2.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	value, ok := gw2.Get("greeting")
	if !ok || value != "hello" {
		t.Errorf("expected persisted value, got %q (%v)", value, ok)
	}

	if !gw2.Remove("greeting") {
		t.Error("expected remove to report true")
	}
	if _, ok := gw2.Get("greeting"); ok {
		t.Error("expected key gone after remove")
	}
	if gw2.Remove("greeting") {
		t.Error("expected removing a missing key to report false")
	}
}

func TestFileGatewayCorruptStoreDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{{{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	gw := NewFileGateway(path)
	if err := gw.Load(); err != nil {
		t.Fatalf("corrupt store should not fail load: %v", err)
	}
	if _, ok := gw.Get("anything"); ok {
		t.Error("expected empty store after corrupt load")
	}
}

func TestFileGatewayIsAvailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	gw := NewFileGateway(path)
	if err := gw.Init(); err != nil {
		t.Fatal(err)
	}

	if !gw.IsAvailable() {
		t.Error("expected writable store to be available")
	}
	if _, ok := gw.Get(probeKey); ok {
		t.Error("probe key should not survive the availability check")
	}
}

func TestSQLiteGatewayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	gw := NewSQLiteGateway(path)

	if err := gw.Load(); err == nil {
		t.Error("expected load before init to fail")
	}
	if err := gw.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer gw.Close()

	if err := gw.Set("entries", `[{"id":"e1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := gw.Set("entries", `[{"id":"e2"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, ok := gw.Get("entries")
	if !ok || value != `[{"id":"e2"}]` {
		t.Errorf("unexpected value: %q (%v)", value, ok)
	}

	if _, ok := gw.Get("missing"); ok {
		t.Error("expected missing key to report absent")
	}

	if !gw.Remove("entries") {
		t.Error("expected remove to report true")
	}
	if gw.Remove("entries") {
		t.Error("expected removing a missing key to report false")
	}

	if !gw.IsAvailable() {
		t.Error("expected sqlite store to be available")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"disk full", syscall.ENOSPC, ErrQuotaExceeded},
		{"quota", syscall.EDQUOT, ErrQuotaExceeded},
		{"permission", os.ErrPermission, ErrDisabled},
		{"read-only fs", syscall.EROFS, ErrDisabled},
		{"sqlite full", errors.New("database or disk is full (13)"), ErrQuotaExceeded},
		{"anything else", errors.New("weird failure"), ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := classify(tt.err, "entries")
			if serr.Kind != tt.want {
				t.Errorf("classify(%v) = %s, want %s", tt.err, serr.Kind, tt.want)
			}
			if serr.Key != "entries" {
				t.Errorf("key not carried: %q", serr.Key)
			}
			if serr.Advice() == "" {
				t.Error("advice should never be empty")
			}
		})
	}
}

func TestAsErrorPassThrough(t *testing.T) {
	original := &Error{Kind: ErrQuotaExceeded, Key: "entries", Err: syscall.ENOSPC}
	wrapped := fmt.Errorf("persist failed: %w", original)

	got := AsError(wrapped, "other-key")
	if got.Kind != ErrQuotaExceeded || got.Key != "entries" {
		t.Errorf("expected original error recovered, got %+v", got)
	}
}
