package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// entryExt is the file extension used for every persisted entry.
const entryExt = ".json"

// FileCache persists one JSON file per key under a single directory.
//
// The directory is created lazily on the first write, so constructing a
// FileCache never touches the file system. Writes go to a temporary file in
// the same directory and are renamed into place, so a concurrent reader sees
// either the old file, the new file or no file, never a partial one.
type FileCache struct {
	dir    string
	remove func(name string) error
}

// NewFileCache creates a file-backed cache rooted at dir.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, remove: os.Remove}
}

// Dir returns the directory holding the cache files.
func (c *FileCache) Dir() string {
	return c.dir
}

// Path returns the file path used for key.
func (c *FileCache) Path(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

// Get reads the file for key. A missing file is a plain miss, an unreadable
// file is a miss carrying the read error and a file that is not valid JSON is
// reported as corrupt.
func (c *FileCache) Get(ctx context.Context, key string) Lookup {
	if err := ctx.Err(); err != nil {
		return Lookup{Status: StatusMiss, Err: err}
	}
	if err := ValidateKey(key); err != nil {
		return Lookup{Status: StatusMiss, Err: err}
	}

	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Lookup{Status: StatusMiss}
		}
		return Lookup{Status: StatusMiss, Err: err}
	}

	if !json.Valid(data) {
		return Lookup{Status: StatusCorrupt, Err: fmt.Errorf("%w: %s", ErrCorruptEntry, key)}
	}

	return Lookup{Status: StatusHit, Value: data}
}

// Set writes value to the file for key, creating the directory if needed.
func (c *FileCache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cache: write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: close entry: %w", err)
	}
	if err := os.Rename(tmpName, c.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: rename entry: %w", err)
	}
	return nil
}

// Delete removes the file for key. Idempotent - no error on miss.
func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.Remove(c.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry file in the cache directory and returns the
// number removed. A missing directory is an empty cache. Files that cannot be
// removed are skipped and their errors joined into the returned error.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache: read dir: %w", err)
	}

	remove := c.remove
	if remove == nil {
		remove = os.Remove
	}

	var (
		count int
		errs  []error
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, entryExt) || strings.HasPrefix(name, ".") {
			continue
		}
		if err := remove(filepath.Join(c.dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("cache: remove %s: %w", name, err))
			continue
		}
		count++
	}

	return count, errors.Join(errs...)
}

// Len returns the number of entry files currently on disk.
func (c *FileCache) Len() int {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	if err != nil {
		return 0
	}
	return len(matches)
}

// Ensure FileCache implements Cache
var _ Cache = (*FileCache)(nil)
