package classifier

import (
	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Index is a name to account lookup keyed by normalized name. Insertion order
// is kept so fuzzy ties resolve deterministically. The first mapping for a key
// wins.
type Index struct {
	keys  []string
	byKey map[string]model.Mapping
}

// NewIndex builds an index. With KeyFirstToken the key is the first word of
// each name; any other policy keys on the whole normalized name.
func NewIndex(mappings []model.Mapping, policy KeyPolicy) *Index {
	idx := &Index{byKey: make(map[string]model.Mapping, len(mappings))}
	for _, m := range mappings {
		key := textnorm.Normalize(m.Name)
		if policy == KeyFirstToken {
			key = textnorm.FirstToken(key)
		}
		if key == "" || m.Code == "" {
			continue
		}
		if _, ok := idx.byKey[key]; ok {
			continue
		}
		idx.keys = append(idx.keys, key)
		idx.byKey[key] = m
	}
	return idx
}

// Get returns the mapping stored under an already-normalized key.
func (i *Index) Get(key string) (model.Mapping, bool) {
	m, ok := i.byKey[key]
	return m, ok
}

// Keys returns the keys in insertion order.
func (i *Index) Keys() []string { return i.keys }

// Len returns the number of keys.
func (i *Index) Len() int { return len(i.keys) }
