// Package cache keeps behaviour metadata of compiled units on disk so later
// runs can resolve behaviours whose sources are not part of the session.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"supra/internal/behaviour"
	"supra/internal/project"
)

// schemaVersion must be bumped whenever UnitMeta changes shape.
const schemaVersion uint16 = 1

// UnitMeta is the cached view of one finalized unit.
type UnitMeta struct {
	Schema      uint16               `msgpack:"schema"`
	Name        string               `msgpack:"name"`
	ContentHash project.Digest       `msgpack:"content_hash"`
	Callbacks   []behaviour.Callback `msgpack:"callbacks"`
	Exports     []Export             `msgpack:"exports"`
	Overridable []string             `msgpack:"overridable"`
}

// Export is one exported name/arity with its kind keyword.
type Export struct {
	Name  string `msgpack:"name"`
	Arity int    `msgpack:"arity"`
	Kind  string `msgpack:"kind"`
}

type nameRef struct {
	Schema uint16         `msgpack:"schema"`
	Hash   project.Digest `msgpack:"hash"`
}

// Disk is a msgpack cache rooted in one directory. Safe for concurrent use.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func Open(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir.
func OpenDir(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Disk) Dir() string { return c.dir }

func (c *Disk) unitPath(key project.Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

func (c *Disk) namePath(name string) string {
	return filepath.Join(c.dir, "names", name+".mp")
}

// Put stores meta under its content hash and points its name at it.
func (c *Disk) Put(meta *UnitMeta) error {
	if c == nil || meta == nil {
		return nil
	}
	meta.Schema = schemaVersion
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := writeAtomic(c.unitPath(meta.ContentHash), meta); err != nil {
		return fmt.Errorf("cache unit %s: %w", meta.Name, err)
	}
	ref := nameRef{Schema: schemaVersion, Hash: meta.ContentHash}
	if err := writeAtomic(c.namePath(meta.Name), &ref); err != nil {
		return fmt.Errorf("cache name %s: %w", meta.Name, err)
	}
	return nil
}

// Get loads the metadata stored for key.
func (c *Disk) Get(key project.Digest) (*UnitMeta, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.get(key)
}

func (c *Disk) get(key project.Digest) (*UnitMeta, bool, error) {
	var meta UnitMeta
	ok, err := readFile(c.unitPath(key), &meta)
	if err != nil || !ok || meta.Schema != schemaVersion {
		return nil, false, err
	}
	return &meta, true, nil
}

// ByName loads the metadata most recently stored for unit name.
func (c *Disk) ByName(name string) (*UnitMeta, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ref nameRef
	ok, err := readFile(c.namePath(name), &ref)
	if err != nil || !ok || ref.Schema != schemaVersion {
		return nil, false, err
	}
	return c.get(ref.Hash)
}

// Contract implements behaviour.Resolver over cached units. Read errors
// count as a miss.
func (c *Disk) Contract(module string) (behaviour.Contract, bool) {
	meta, ok, err := c.ByName(module)
	if err != nil || !ok {
		return behaviour.Contract{}, false
	}
	return behaviour.Contract{Module: meta.Name, Callbacks: meta.Callbacks}, true
}

// DropAll removes every cached entry.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range []string{"units", "names"} {
		if err := os.RemoveAll(filepath.Join(c.dir, sub)); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, v any) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(v); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func readFile(path string, out any) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}
