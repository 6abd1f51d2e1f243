package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteGateway backs the key-value store with a single kv table. It is the
// default store; the file gateway is selected with a .json path.
type SQLiteGateway struct {
	path string
	db   *sql.DB
}

func NewSQLiteGateway(path string) *SQLiteGateway {
	return &SQLiteGateway{
		path: path,
	}
}

func (g *SQLiteGateway) Init() error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if _, err := os.Stat(g.path); err == nil {
		return fmt.Errorf("store already initialized at %s", g.path)
	}

	db, err := sql.Open("sqlite", g.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	g.db = db

	return g.ensureSchema()
}

func (g *SQLiteGateway) Load() error {
	if g.db != nil {
		return nil
	}

	if _, err := os.Stat(g.path); os.IsNotExist(err) {
		return fmt.Errorf("store not initialized, run 'threethings init' first")
	}

	db, err := sql.Open("sqlite", g.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	g.db = db

	return g.ensureSchema()
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

func (g *SQLiteGateway) ensureSchema() error {
	_, err := g.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (g *SQLiteGateway) Set(key, value string) error {
	if g.db == nil {
		return classify(fmt.Errorf("store not loaded"), key)
	}
	if _, err := g.db.Exec("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value); err != nil {
		return classify(err, key)
	}
	return nil
}

func (g *SQLiteGateway) Get(key string) (string, bool) {
	if g.db == nil {
		return "", false
	}
	var value string
	err := g.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		// sql.ErrNoRows and genuine read failures alike mean "no data".
		return "", false
	}
	return value, true
}

func (g *SQLiteGateway) Remove(key string) bool {
	if g.db == nil {
		return false
	}
	res, err := g.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return false
	}
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

func (g *SQLiteGateway) IsAvailable() bool {
	if err := g.Set(probeKey, "ok"); err != nil {
		return false
	}
	value, ok := g.Get(probeKey)
	g.Remove(probeKey)
	return ok && value == "ok"
}

func (g *SQLiteGateway) Path() string {
	return g.path
}

// DB exposes the underlying handle for diagnostics.
func (g *SQLiteGateway) DB() *sql.DB {
	return g.db
}
