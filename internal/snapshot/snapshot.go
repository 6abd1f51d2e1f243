package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// MaxSnapshots is the number of snapshots kept before rotation.
	MaxSnapshots = 14
	// DirName is the snapshot directory, next to the store file.
	DirName = "snapshots"

	filePrefix = "threethings-"
)

// Info describes one snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager copies the store file aside before risky operations and can
// put a copy back.
type Manager struct {
	storePath string
	dir       string
}

func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		dir:       filepath.Join(filepath.Dir(storePath), DirName),
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create makes a timestamped copy of the store file and rotates old
// snapshots out.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return "", fmt.Errorf("store does not exist: %s", m.storePath)
	}

	dest, err := m.uniquePath(time.Now())
	if err != nil {
		return "", err
	}

	if m.isSQLite() {
		if err := m.copySQLite(dest); err != nil {
			return "", fmt.Errorf("failed to snapshot store: %w", err)
		}
	} else {
		if err := copyFile(m.storePath, dest); err != nil {
			return "", fmt.Errorf("failed to snapshot store: %w", err)
		}
	}

	if err := m.rotate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to rotate old snapshots: %v\n", err)
	}

	return dest, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	ext := m.ext()
	var snapshots []Info
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ext) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ext)
		// Unique-name suffixes ("-2") sit after the timestamp.
		if i := strings.IndexByte(stamp[min(len(stamp), 15):], '-'); i >= 0 {
			stamp = stamp[:min(len(stamp), 15)+i]
		}
		ts, err := time.Parse("20060102-150405", stamp)
		if err != nil {
			continue
		}

		path := filepath.Join(m.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Info{Path: path, Timestamp: ts, Size: info.Size()})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// Restore replaces the store file with a snapshot, keeping a copy of
// the current store first.
func (m *Manager) Restore(snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return fmt.Errorf("snapshot does not exist: %s", snapshotPath)
	}

	if _, err := os.Stat(m.storePath); err == nil {
		kept, err := m.Create()
		if err != nil {
			return fmt.Errorf("failed to snapshot current store before restore: %w", err)
		}
		fmt.Printf("Kept a copy of the current store: %s\n", filepath.Base(kept))
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(snapshotPath, tmp); err != nil {
		return fmt.Errorf("failed to copy snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to restore store: %w", err)
	}
	return nil
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxSnapshots; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", snapshots[i].Path, err)
		}
	}
	return nil
}

func (m *Manager) uniquePath(now time.Time) (string, error) {
	base := filePrefix + now.Format("20060102-150405")
	ext := m.ext()

	path := filepath.Join(m.dir, base+ext)
	for counter := 2; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique snapshot name")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s-%d%s", base, counter, ext))
	}
}

func (m *Manager) ext() string {
	if ext := filepath.Ext(m.storePath); ext != "" {
		return ext
	}
	return ".db"
}

func (m *Manager) isSQLite() bool {
	return m.ext() != ".json"
}

// copySQLite uses VACUUM INTO for a consistent copy, falling back to a
// plain file copy on older SQLite builds.
func (m *Manager) copySQLite(dest string) error {
	db, err := sql.Open("sqlite", m.storePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("store appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return copyFile(m.storePath, dest)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
