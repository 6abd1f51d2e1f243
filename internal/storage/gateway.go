package storage

// Gateway wraps a local key-value string store. Writes report classified
// StorageErrors; reads never fail — any read problem is treated as "no
// data" so a corrupted or inaccessible store degrades to empty collections
// instead of blocking startup.
type Gateway interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value surface
	Set(key, value string) error // non-nil errors are always *storage.Error
	Get(key string) (string, bool)
	Remove(key string) bool
	IsAvailable() bool

	// Utils
	Path() string
}

// probeKey is a throwaway key used by IsAvailable round-trip checks.
const probeKey = "three-things-probe"
