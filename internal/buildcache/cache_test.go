package buildcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCachePath(t *testing.T) {
	if got, want := CachePath("/project/dist"), "/project/dist/.tsickle-cache"; got != want {
		t.Errorf("CachePath = %q, want %q", got, want)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "test.txt")
	os.WriteFile(path, []byte("hello world"), 0644)
	hash1 := HashFile(path)
	if hash1 == "" {
		t.Fatal("HashFile returned empty for existing file")
	}

	path2 := filepath.Join(dir, "test2.txt")
	os.WriteFile(path2, []byte("hello world"), 0644)
	hash2 := HashFile(path2)
	if hash1 != hash2 {
		t.Errorf("same content produced different hashes: %q vs %q", hash1, hash2)
	}

	path3 := filepath.Join(dir, "test3.txt")
	os.WriteFile(path3, []byte("hello world!"), 0644)
	hash3 := HashFile(path3)
	if hash1 == hash3 {
		t.Error("different content produced same hash")
	}

	hash4 := HashFile(filepath.Join(dir, "nonexistent"))
	if hash4 != "" {
		t.Errorf("HashFile returned %q for non-existent file, want empty", hash4)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "test.tsickle-cache")

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for non-existent file")
	}

	original := New("abc123")
	original.Record("/src/a.ts", "const a = 1;")
	if err := Save(cachePath, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(cachePath)
	if loaded == nil {
		t.Fatal("Load returned nil after Save")
	}
	if loaded.V != original.V {
		t.Errorf("V = %d, want %d", loaded.V, original.V)
	}
	if loaded.ConfigHash != original.ConfigHash {
		t.Errorf("ConfigHash = %q, want %q", loaded.ConfigHash, original.ConfigHash)
	}
	if !loaded.UpToDate("abc123", "/src/a.ts", "const a = 1;") {
		t.Error("loaded cache should report the recorded file as up to date")
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "corrupted.tsickle-cache")
	os.WriteFile(cachePath, []byte("not json at all {{{"), 0644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for corrupted JSON")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "empty.tsickle-cache")
	os.WriteFile(cachePath, []byte(""), 0644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for empty file")
	}
}

func TestUpToDate_NilCache(t *testing.T) {
	var c *Cache
	if c.UpToDate("anything", "/src/a.ts", "content") {
		t.Error("nil cache should never report up to date")
	}
}

func TestUpToDate_SchemaVersionMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion + 1, ConfigHash: "abc", Files: map[string]FileEntry{
		"/src/a.ts": {SourceHash: HashString("content")},
	}}
	if c.UpToDate("abc", "/src/a.ts", "content") {
		t.Error("cache with wrong schema version should not be up to date")
	}
}

func TestUpToDate_ConfigHashMismatch(t *testing.T) {
	c := New("old-hash")
	c.Record("/src/a.ts", "content")
	if c.UpToDate("new-hash", "/src/a.ts", "content") {
		t.Error("cache with mismatched config hash should not be up to date")
	}
}

func TestUpToDate_UnknownFile(t *testing.T) {
	c := New("hash")
	if c.UpToDate("hash", "/src/never-recorded.ts", "content") {
		t.Error("a file never recorded should not be up to date")
	}
}

func TestUpToDate_ContentChanged(t *testing.T) {
	c := New("hash")
	c.Record("/src/a.ts", "const a = 1;")
	if c.UpToDate("hash", "/src/a.ts", "const a = 2;") {
		t.Error("changed file content should not be up to date")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "test.tsickle-cache")

	os.WriteFile(cachePath, []byte(`{"v":1}`), 0644)
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatal("cache file should exist before delete")
	}

	Delete(cachePath)
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Error("cache file should not exist after delete")
	}

	Delete(filepath.Join(dir, "nonexistent"))
}

func TestNew(t *testing.T) {
	c := New("hash123")
	if c.V != SchemaVersion {
		t.Errorf("V = %d, want %d", c.V, SchemaVersion)
	}
	if c.ConfigHash != "hash123" {
		t.Errorf("ConfigHash = %q, want %q", c.ConfigHash, "hash123")
	}
	if len(c.Files) != 0 {
		t.Fatalf("Files length = %d, want 0", len(c.Files))
	}
}

func TestSaveAtomicity(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "atomic.tsickle-cache")

	c := New("hash")
	if err := Save(cachePath, c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tmpPath := cachePath + ".tmp"
	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Error("temp file should not exist after successful save")
	}

	if loaded := Load(cachePath); loaded == nil {
		t.Fatal("failed to load after atomic save")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nestedPath := filepath.Join(dir, "sub", "dir", "cache.tsickle-cache")

	c := New("hash")
	if err := Save(nestedPath, c); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if loaded := Load(nestedPath); loaded == nil {
		t.Fatal("failed to load from nested directory")
	}
}

func TestRoundTripWithRealFiles(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "tsickle.config.json")
	os.WriteFile(configPath, []byte(`{"emit":{"moduleFormat":"goog"}}`), 0644)
	configHash := HashFile(configPath)
	if configHash == "" {
		t.Fatal("failed to hash config file")
	}

	srcPath := filepath.Join(dir, "a.ts")
	src := "export const a: number = 1;"
	os.WriteFile(srcPath, []byte(src), 0644)

	cachePath := filepath.Join(dir, "tsconfig.tsickle-cache")
	c := New(configHash)
	c.Record(srcPath, src)
	if err := Save(cachePath, c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(cachePath)
	if !loaded.UpToDate(configHash, srcPath, src) {
		t.Error("cache should be up to date when nothing changed")
	}

	os.WriteFile(configPath, []byte(`{"emit":{"moduleFormat":"commonjs"}}`), 0644)
	newConfigHash := HashFile(configPath)
	if loaded.UpToDate(newConfigHash, srcPath, src) {
		t.Error("cache should be invalidated when config changed")
	}

	if loaded.UpToDate(configHash, srcPath, src+"\nexport const b = 2;") {
		t.Error("cache should be invalidated when source content changed")
	}
}
