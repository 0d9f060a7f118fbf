package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"packfmt/internal/pack"
	"packfmt/internal/source"
)

// Current schema version - increment when CheckPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest identifies one (grammar, variant, content) triple in the cache.
type Digest [32]byte

// DiskCache хранит результаты check по хешу содержимого шаблона.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedError is the stored form of a *pack.Error.
type CachedError struct {
	Kind        uint8
	Start, End  uint32
	DetailStart uint32
	DetailEnd   uint32
	Message     string
}

// CheckPayload stores the outcome of decoding one template.
type CheckPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Version    string
	Variant    string
	Directives int
	Encoding   string
	Err        *CachedError // nil when the template is valid
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey mixes the grammar version and variant into the content hash, so
// the same bytes checked as pack and as unpack never share an entry.
func CacheKey(version pack.Version, variant pack.Variant, file *source.File) Digest {
	h := sha256.New()
	h.Write([]byte(version.String()))
	h.Write([]byte{0})
	h.Write([]byte(variant.String()))
	h.Write([]byte{0})
	h.Write(file.Hash[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "checks", чтобы было удобно чистить
	return filepath.Join(c.dir, "checks", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CheckPayload) (err error) {
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
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// with another schema are reported as misses.
func (c *DiskCache) Get(key Digest, out *CheckPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from a hex digest inside the cache dir
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func payloadFor(f *pack.Format, version pack.Version, variant pack.Variant, decodeErr *pack.Error) *CheckPayload {
	p := &CheckPayload{
		Schema:  diskCacheSchemaVersion,
		Version: version.String(),
		Variant: variant.String(),
	}
	if f != nil {
		p.Directives = len(f.Directives)
		p.Encoding = f.Encoding.String()
	}
	if decodeErr != nil {
		p.Err = &CachedError{
			Kind:        uint8(decodeErr.Kind),
			Start:       decodeErr.Span.Start,
			End:         decodeErr.Span.End,
			DetailStart: decodeErr.Detail.Start,
			DetailEnd:   decodeErr.Detail.End,
			Message:     decodeErr.Message,
		}
	}
	return p
}

// restore rebuilds the decode error for file from a cached payload.
func (p *CheckPayload) restore(file *source.File) *pack.Error {
	if p.Err == nil {
		return nil
	}
	e := &pack.Error{
		Kind:    pack.ErrorKind(p.Err.Kind),
		Span:    source.Span{File: file.ID, Start: p.Err.Start, End: p.Err.End},
		Detail:  source.Span{File: file.ID, Start: p.Err.DetailStart, End: p.Err.DetailEnd},
		Message: p.Err.Message,
	}
	e.Text = string(e.Span.Slice(file.Content))
	return e
}
