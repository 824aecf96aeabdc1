package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Key identifies one critique request. Equal keys mean the model would be
// sent the same tree and the same prompts, so an earlier answer can stand
// in for a new call.
type Key struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	// TreeHash covers the encoded projected tree.
	TreeHash string `json:"treeHash"`
	// PromptHash covers both prompts, and with them the language and the
	// check pack.
	PromptHash string `json:"promptHash"`
}

// NewKey hashes the encoded tree and the prompts into a Key.
func NewKey(provider, model string, temperature float64, tree []byte, systemPrompt, userPrompt string) Key {
	return Key{
		Provider:    provider,
		Model:       model,
		Temperature: temperature,
		TreeHash:    digest(tree),
		PromptHash:  digest([]byte(systemPrompt), []byte(userPrompt)),
	}
}

// ID is the file name stem of the key's entry.
func (k Key) ID() string {
	return digest([]byte(k.Provider), []byte(k.Model),
		[]byte(fmt.Sprintf("%g", k.Temperature)), []byte(k.TreeHash), []byte(k.PromptHash))
}

// Design is the Figma node a cached critique belongs to. Trees read from
// local files have no FileKey and share one bucket.
type Design struct {
	FileKey string `json:"fileKey,omitempty"`
	NodeID  string `json:"nodeId,omitempty"`
}

func (d Design) dirName() string {
	if d.FileKey == "" {
		return "local"
	}
	return safeName(d.FileKey) + "_" + safeName(d.NodeID)
}

// Entry is a stored critique and the metadata of the run that produced it.
type Entry struct {
	Key        Key       `json:"key"`
	Design     Design    `json:"design"`
	RunID      string    `json:"runId"`
	Markdown   string    `json:"markdown"`
	TokensUsed int       `json:"tokensUsed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Cache keeps critiques on disk, one directory per design and one file per
// Key, so a design can be invalidated on its own.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New opens the cache in dir, or DefaultDir when dir is empty. A disabled
// cache misses on every Get and ignores Put.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{now: time.Now}, nil
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Get returns the entry stored for design d under k. Expired entries are
// removed and miss, as do entries whose stored key differs from k.
func (c *Cache) Get(d Design, k Key) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	path := c.entryPath(d, k)
	e, err := readEntry(path)
	if err != nil || e.Key != k {
		return Entry{}, false
	}
	if c.expired(e) {
		os.Remove(path)
		return Entry{}, false
	}
	return e, true
}

// Put stores e under its design and key. The file is replaced atomically so
// a concurrent Get never sees a partial entry.
func (c *Cache) Put(e Entry) error {
	if !c.enabled {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	dir := filepath.Join(c.dir, e.Design.dirName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.entryPath(e.Design, e.Key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Invalidate removes every entry for design d and reports how many there
// were.
func (c *Cache) Invalidate(d Design) (int, error) {
	if !c.enabled {
		return 0, nil
	}
	dir := filepath.Join(c.dir, d.dirName())
	n, err := c.remove(dir, func(string) bool { return true })
	if err != nil {
		return n, err
	}
	// stays behind if a Put is writing its temp file
	_ = os.Remove(dir)
	return n, nil
}

// Prune removes expired entries and reports how many it deleted.
func (c *Cache) Prune() (int, error) {
	if !c.enabled || c.ttl <= 0 {
		return 0, nil
	}
	return c.remove(c.dir, func(path string) bool {
		e, err := readEntry(path)
		return err != nil || c.expired(e)
	})
}

// Clear removes all entries and reports how many it deleted.
func (c *Cache) Clear() (int, error) {
	if !c.enabled {
		return 0, nil
	}
	return c.remove(c.dir, func(string) bool { return true })
}

// Stats describes the cache contents.
type Stats struct {
	Dir        string `json:"dir"`
	Designs    int    `json:"designs"`
	Entries    int    `json:"entries"`
	Expired    int    `json:"expired"`
	TotalBytes int64  `json:"totalBytes"`
}

// GetStats walks the cache and counts entries per design.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled {
		return stats, nil
	}
	designs := make(map[string]bool)
	err := c.walk(c.dir, func(path string, info fs.FileInfo) error {
		stats.Entries++
		stats.TotalBytes += info.Size()
		designs[filepath.Dir(path)] = true
		if e, err := readEntry(path); err == nil && c.expired(e) {
			stats.Expired++
		}
		return nil
	})
	stats.Designs = len(designs)
	return stats, err
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) expired(e Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) entryPath(d Design, k Key) string {
	return filepath.Join(c.dir, d.dirName(), k.ID()+".json")
}

// remove deletes the entry files under root for which match is true.
func (c *Cache) remove(root string, match func(path string) bool) (int, error) {
	var removed int
	err := c.walk(root, func(path string, _ fs.FileInfo) error {
		if !match(path) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		removed++
		return nil
	})
	return removed, err
}

// walk calls fn for every entry file under root. A missing root is empty.
func (c *Cache) walk(root string, fn func(path string, info fs.FileInfo) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(path, info)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	return nil
}

func readEntry(path string) (Entry, error) {
	var e Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(data, &e)
	return e, err
}

// digest hashes parts with length prefixes so ("ab","c") and ("a","bc")
// differ.
func digest(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// safeName keeps letters, digits and dashes so file keys and node ids can
// name a directory.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}

// DefaultDir returns the OS-appropriate cache directory for figcrit.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "figcrit"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(base, "figcrit"), nil
}
