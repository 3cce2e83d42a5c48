package cache

import (
	"fmt"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// File is a Cache backed by a single msgpack-encoded file on disk, so a
// Compiler's render cache can survive across process runs the way a
// persistent cache in spec.md §6 is meant to. It does not write through
// on every Set; call Flush to persist the current snapshot.
type File struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
}

// LoadFile opens path and decodes its entries, or starts with an empty
// cache if the file doesn't exist yet.
func LoadFile(path string) (*File, error) {
	f := &File{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("cache: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := msgpack.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(key string) (Entry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.entries[key]
	return e, ok
}

func (f *File) Set(key string, entry Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = entry
}

// Flush encodes the current snapshot and writes it to path, overwriting
// whatever was there.
func (f *File) Flush() error {
	f.mu.RLock()
	data, err := msgpack.Marshal(f.entries)
	f.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", f.path, err)
	}
	return nil
}

var _ Cache = (*File)(nil)
