package classifier

// Cache memoizes resolutions by normalized description for one run.
type Cache struct {
	entries map[string]Resolution
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Resolution)}
}

func (c *Cache) get(key string) (Resolution, bool) {
	r, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return r, ok
}

func (c *Cache) put(key string, r Resolution) {
	c.entries[key] = r
}

// Len returns the number of cached descriptions.
func (c *Cache) Len() int { return len(c.entries) }

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) { return c.hits, c.misses }
