package table

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/mechcheck/internal/core/model"
)

// Cache loads each table file once, so versions sharing a database read it a
// single time. Tables are immutable after load and safe to share.
type Cache struct {
	mu     sync.Mutex
	tables map[string]*model.TranslationTable
	logger *zap.Logger
}

func NewCache(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		tables: make(map[string]*model.TranslationTable),
		logger: logger,
	}
}

// Get returns the cached table for path, loading it on first use. Failed loads
// are not cached.
func (c *Cache) Get(path, sep string) (*model.TranslationTable, error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = filepath.Clean(abs)
	}
	key += "\x00" + sep

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[key]; ok {
		c.logger.Debug("Translation table cache hit", zap.String("path", path))
		return t, nil
	}

	t, err := Load(path, sep)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Loaded translation table",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Strings("columns", t.Header()))
	c.tables[key] = t
	return t, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}

// Reset drops every cached table so the next Get reloads from disk.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]*model.TranslationTable)
}
