package web

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// renderCache remembers which output directory holds the page for a
// fingerprint, so an unchanged set is not rendered twice.
type renderCache struct {
	entries *lru.Cache[string, string]
}

// newRenderCache returns nil when size is not positive; a nil cache
// never hits.
func newRenderCache(size int) (*renderCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create render cache: %w", err)
	}
	return &renderCache{entries: c}, nil
}

// hit reports whether key was last rendered into webDir and the page is
// still there.
func (c *renderCache) hit(key, webDir string) bool {
	if c == nil {
		return false
	}
	dir, ok := c.entries.Get(key)
	if !ok || dir != webDir {
		return false
	}
	_, err := os.Stat(indexPath(webDir))
	return err == nil
}

func (c *renderCache) add(key, webDir string) {
	if c == nil {
		return
	}
	c.entries.Add(key, webDir)
}

func (c *renderCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// fingerprint hashes the encoded set, the title and the name, size and
// modification time of every file to be copied.
func fingerprint(script []byte, title string, files []os.FileInfo) string {
	h := sha256.New()
	h.Write(script)
	fmt.Fprintf(h, "\x00%s", title)
	for _, f := range files {
		fmt.Fprintf(h, "\x00%s:%d:%d", f.Name(), f.Size(), f.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}
