package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileGateway keeps the whole key-value store in one JSON file, in the same
// spirit as a browser's local storage: a flat map of string keys to string
// values. Writes go through a temp file and rename so a failed write never
// truncates existing data.
type FileGateway struct {
	path   string
	values map[string]string
}

func NewFileGateway(path string) *FileGateway {
	return &FileGateway{
		path: path,
	}
}

func (g *FileGateway) Init() error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if _, err := os.Stat(g.path); err == nil {
		return fmt.Errorf("store already initialized at %s", g.path)
	}

	g.values = make(map[string]string)
	return g.save()
}

func (g *FileGateway) Load() error {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store not initialized, run 'threethings init' first")
		}
		// Unreadable store degrades to empty; reads are never fatal.
		g.values = make(map[string]string)
		return nil
	}

	g.values = make(map[string]string)
	if err := json.Unmarshal(data, &g.values); err != nil {
		// Corrupted store file: start empty rather than blocking startup.
		g.values = make(map[string]string)
	}
	return nil
}

func (g *FileGateway) Close() error {
	return nil
}

func (g *FileGateway) save() error {
	data, err := json.MarshalIndent(g.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, g.path)
}

func (g *FileGateway) Set(key, value string) error {
	if g.values == nil {
		g.values = make(map[string]string)
	}

	prev, had := g.values[key]
	g.values[key] = value
	if err := g.save(); err != nil {
		// Keep the in-memory map consistent with what is actually on disk.
		if had {
			g.values[key] = prev
		} else {
			delete(g.values, key)
		}
		return classify(err, key)
	}
	return nil
}

func (g *FileGateway) Get(key string) (string, bool) {
	if g.values == nil {
		return "", false
	}
	value, ok := g.values[key]
	return value, ok
}

func (g *FileGateway) Remove(key string) bool {
	if g.values == nil {
		return false
	}
	if _, ok := g.values[key]; !ok {
		return false
	}
	delete(g.values, key)
	// Best-effort: a failed save is ignored, the key stays gone in memory.
	return g.save() == nil
}

func (g *FileGateway) IsAvailable() bool {
	if err := g.Set(probeKey, "ok"); err != nil {
		return false
	}
	value, ok := g.Get(probeKey)
	g.Remove(probeKey)
	return ok && value == "ok"
}

func (g *FileGateway) Path() string {
	return g.path
}
