package account

import (
	"fmt"
	"path/filepath"
)

// OpenStore opens the backend named by kind ("memory", "file" or "sqlite")
// with its data kept under dataDir.
func OpenStore(kind, dataDir string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(dataDir)
	case "sqlite":
		return OpenSQLite(filepath.Join(dataDir, "warzone.db"))
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}
