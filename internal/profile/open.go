package profile

import (
	"path/filepath"
	"strings"
)

// Open picks a store implementation from location: "memory" (or "") for an
// in-memory store, a .db/.sqlite/.sqlite3 path for SQLite, and any other
// path for a JSON file.
func Open(location string) (Store, error) {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLiteStore(location)
	}
	if location == "" || location == "memory" {
		return NewMemoryStore(), nil
	}
	return OpenFileStore(location)
}
