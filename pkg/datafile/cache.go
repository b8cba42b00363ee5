package datafile

// Cache memoizes loaded datafiles for the duration of one export so each
// path is read at most once. It is not safe for concurrent use.
type Cache struct {
	loader  ColumnLoader
	entries map[string]Columns
	reads   int
}

var _ ColumnLoader = (*Cache)(nil)

// NewCache wraps loader with a per-export cache.
func NewCache(loader ColumnLoader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[string]Columns),
	}
}

// Load returns the cached columns for path, loading them on first use.
// Failed loads are not cached.
func (c *Cache) Load(path string) (Columns, error) {
	if cols, ok := c.entries[path]; ok {
		return cols, nil
	}
	cols, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	c.reads++
	c.entries[path] = cols
	return cols, nil
}

// Reads returns how many datafiles were loaded through the cache.
func (c *Cache) Reads() int {
	return c.reads
}
