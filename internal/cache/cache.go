// Package cache persists fetched Notion result sets as one JSON file per key.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Mode string

const (
	// ModeBuild trusts every entry regardless of age.
	ModeBuild Mode = "build"
	// ModeDev treats entries older than the TTL as absent.
	ModeDev Mode = "dev"
)

const DefaultTTL = 5 * time.Minute

type Options struct {
	Mode Mode
	TTL  time.Duration
	Now  func() time.Time
}

// Disk is a file-per-key JSON cache rooted at a directory.
type Disk struct {
	dir  string
	mode Mode
	ttl  time.Duration
	now  func() time.Time
}

func New(dir string, opts Options) *Disk {
	if opts.Mode == "" {
		opts.Mode = ModeBuild
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Disk{dir: dir, mode: opts.Mode, ttl: opts.TTL, now: opts.Now}
}

// Get decodes the entry stored under key into dst. It reports false when the
// entry does not exist or, in dev mode, is older than the TTL.
func (d *Disk) Get(key string, dst any) (bool, error) {
	path := d.path(key)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat cache entry %s: %w", key, err)
	}

	if d.mode == ModeDev && d.now().Sub(info.ModTime()) > d.ttl {
		return false, nil
	}

	// #nosec G304 - path is built from a sanitized key under the cache dir
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set replaces the entry stored under key with the JSON encoding of v.
func (d *Disk) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache entry %s: %w", key, err)
	}
	return nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, sanitize(key)+".json")
}

func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
}
