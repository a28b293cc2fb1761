package yoktez

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// pdfCache is a two-tier cache for downloaded PDFs: a size-bounded LRU in
// memory, backed by TTL'd files on disk so documents survive restarts.
// Both tiers are best-effort; a cache failure never fails a request.
type pdfCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // back = most recently used
	maxItems int
	maxBytes int64
	curBytes int64

	dir    string // empty disables the disk tier
	ttl    time.Duration
	logger *zap.Logger
}

type cacheEntry struct {
	key  string
	data []byte
}

func newPDFCache(dir string, maxItems, maxMB int, ttl time.Duration, logger *zap.Logger) *pdfCache {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn("pdf disk cache disabled", zap.String("dir", dir), zap.Error(err))
			dir = ""
		}
	}
	return &pdfCache{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		maxItems: maxItems,
		maxBytes: int64(maxMB) * 1024 * 1024,
		dir:      dir,
		ttl:      ttl,
		logger:   logger,
	}
}

// get returns cached bytes for key, consulting memory first and falling
// back to disk. A disk hit is promoted back into memory.
func (c *pdfCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToBack(el)
		data := el.Value.(*cacheEntry).data
		c.mu.Unlock()
		return data, true
	}
	c.mu.Unlock()

	if c.dir == "" {
		return nil, false
	}
	path := c.filePath(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	c.storeMemory(key, data)
	return data, true
}

// put stores bytes in both tiers.
func (c *pdfCache) put(key string, data []byte) {
	if len(data) == 0 {
		return
	}
	c.storeMemory(key, data)
	if c.dir == "" {
		return
	}
	path := c.filePath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		c.logger.Warn("pdf disk cache write failed", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		c.logger.Warn("pdf disk cache rename failed", zap.Error(err))
	}
}

func (c *pdfCache) storeMemory(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.curBytes -= int64(len(el.Value.(*cacheEntry).data))
		c.order.Remove(el)
		delete(c.entries, key)
	}

	// Evict from the LRU end until the new entry fits.
	for c.order.Len() > 0 &&
		(c.curBytes+int64(len(data)) > c.maxBytes || c.order.Len() >= c.maxItems) {
		oldest := c.order.Front()
		entry := oldest.Value.(*cacheEntry)
		c.curBytes -= int64(len(entry.data))
		c.order.Remove(oldest)
		delete(c.entries, entry.key)
	}

	el := c.order.PushBack(&cacheEntry{key: key, data: data})
	c.entries[key] = el
	c.curBytes += int64(len(data))
}

func (c *pdfCache) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".pdf")
}
