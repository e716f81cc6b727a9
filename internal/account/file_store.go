package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type fileState struct {
	Players map[string]Player `json:"players"`
}

// FileStore keeps players in a JSON document on disk. Every write rewrites
// the document through a temp file and rename. Reads pick up changes made by
// other processes sharing the same data directory.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	s       fileState
	modTime time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or creates) players.json inside dataDir.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileStore{
		path: filepath.Join(dataDir, "players.json"),
		s:    fileState{Players: map[string]Player{}},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileStore) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

// refresh reloads the document if it changed on disk since the last load or save.
func (r *FileStore) refresh() error {
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	r.mu.RLock()
	fresh := info.ModTime().Equal(r.modTime)
	r.mu.RUnlock()
	if fresh {
		return nil
	}
	return r.load()
}

func (r *FileStore) loadLocked() error {
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return fmt.Errorf("decode %s: %w", r.path, err)
	}
	if loaded.Players == nil {
		loaded.Players = map[string]Player{}
	}
	r.s = loaded
	r.modTime = info.ModTime()
	return nil
}

func (r *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return err
	}
	if info, err := os.Stat(r.path); err == nil {
		r.modTime = info.ModTime()
	}
	return nil
}

func (r *FileStore) Get(ctx context.Context, identity string) (Player, error) {
	if err := ctx.Err(); err != nil {
		return Player{}, err
	}
	if err := r.refresh(); err != nil {
		return Player{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.s.Players[identity]
	if !ok {
		return Player{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *FileStore) Put(ctx context.Context, p Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.refresh(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.s.Players[p.Identity]
	r.s.Players[p.Identity] = p.normalize()
	if err := r.saveLocked(); err != nil {
		if had {
			r.s.Players[p.Identity] = prev
		} else {
			delete(r.s.Players, p.Identity)
		}
		return err
	}
	return nil
}

func (r *FileStore) List(ctx context.Context) ([]Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.refresh(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Player, 0, len(r.s.Players))
	for _, p := range r.s.Players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func (r *FileStore) Close() error { return nil }
