// Package buildcache provides the on-disk record behind tsickle's `dev`
// mode: under a hash of the pipeline configuration, it stores the content
// hash of each output file's text as last written, so that a run can leave
// an output file untouched when its new text hashes the same. The passes
// themselves are not skipped: every run reprocesses every file.
//
// A config-hash mismatch invalidates the whole cache, because a
// decorate/emit setting change can alter the output of every file at once.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
)

// SchemaVersion is bumped when the cache format changes, forcing a full
// reprocess on binary upgrades rather than trusting a stale shape.
const SchemaVersion = 1

// FileEntry records the content hash of one output file's text as last
// written.
type FileEntry struct {
	SourceHash string `json:"sourceHash"`
}

// Cache is the on-disk incremental-build cache.
type Cache struct {
	V          int                  `json:"v"`
	ConfigHash string               `json:"configHash"`
	Files      map[string]FileEntry `json:"files"`
}

// New creates an empty cache for the given config hash.
func New(configHash string) *Cache {
	return &Cache{V: SchemaVersion, ConfigHash: configHash, Files: make(map[string]FileEntry)}
}

// CachePath returns the cache file path inside the output directory: it
// lives at `<outDir>/.tsickle-cache` so that cleaning the output directory
// (`tsickle build --clean`) also discards the cache, guaranteeing a cold
// rebuild.
func CachePath(outDir string) string {
	return filepath.Join(outDir, ".tsickle-cache")
}

// Load reads and parses a cache file from disk. Returns nil on any error —
// callers treat nil as "cache miss" and reprocess every file.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache to disk atomically (write to temp, rename).
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("marshaling build cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes the cache file from disk. Errors are ignored (file may
// not exist).
func Delete(path string) {
	os.Remove(path)
}

// UpToDate reports whether file's previously recorded hash matches content
// under the given config hash — the single-file analog of the old
// Cache.IsValid whole-run check.
func (c *Cache) UpToDate(configHash, file, content string) bool {
	if c == nil || c.V != SchemaVersion || c.ConfigHash != configHash {
		return false
	}
	entry, ok := c.Files[file]
	if !ok {
		return false
	}
	return entry.SourceHash == HashString(content)
}

// Record stores file's current content hash so a later UpToDate call can
// recognize it as unchanged.
func (c *Cache) Record(file, content string) {
	if c.Files == nil {
		c.Files = make(map[string]FileEntry)
	}
	c.Files[file] = FileEntry{SourceHash: HashString(content)}
}

// HashFile computes the SHA-256 hex digest of a file's contents. Returns
// empty string if the file doesn't exist or can't be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashString(string(data))
}

// HashString computes the SHA-256 hex digest of s.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
