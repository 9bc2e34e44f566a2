package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"quill/internal/core"
)

// Current schema version — increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит зонкнутые деревья ядра по хешу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNode is the serialisable form of one explicit-hole core node.
type CachedNode struct {
	Kind     uint8
	Hole     bool
	Params   []uint32
	Local    uint32
	Sig      uint64
	Bool     bool
	Str      string
	Quoted   string // рендер процитированного синтаксиса
	Children []CachedNode
}

// DiskPayload stores one cached expansion artifact.
type DiskPayload struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16

	SourcePath string
	Pretty     string
	Root       CachedNode
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt returns a disk cache rooted at an explicit directory
// (tests, sandboxes).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог для удобства очистки
	return filepath.Join(c.dir, "exp", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A schema
// mismatch counts as a miss.
func (c *DiskCache) Get(key [32]byte, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// cacheNode flattens a core tree into its serialisable form.
func cacheNode(t core.Tree) CachedNode {
	out := CachedNode{
		Kind:  uint8(t.Kind),
		Hole:  t.Hole,
		Local: uint32(t.Local),
		Sig:   t.Sig,
		Bool:  t.Bool,
		Str:   t.Str,
	}
	for _, p := range t.Params {
		out.Params = append(out.Params, uint32(p))
	}
	if t.Kind == core.ShapeQuote {
		out.Quoted = t.Stx.Dump(nil)
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, cacheNode(c))
	}
	return out
}

// tree rebuilds a core tree from its cached form. Quoted syntax is not
// reconstructed — the cached artifact keeps only its rendering.
func (n CachedNode) tree() core.Tree {
	if n.Hole {
		return core.HoleTree()
	}
	out := core.Tree{
		Kind:  core.ShapeKind(n.Kind),
		Local: core.LocalID(n.Local),
		Sig:   n.Sig,
		Bool:  n.Bool,
		Str:   n.Str,
	}
	for _, p := range n.Params {
		out.Params = append(out.Params, core.LocalID(p))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.tree())
	}
	return out
}
