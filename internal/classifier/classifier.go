// Package classifier resolves a free-text ledger description to a counter
// account. Resolution is layered, first hit wins: explicit DE-PARA map,
// exact vendor match, ordered keyword rules, fuzzy vendor match, fallback.
package classifier

import (
	"strings"

	"github.com/cleared-dev/concilia/internal/model"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// MatchKind selects how a keyword rule is compared with a description.
type MatchKind string

const (
	MatchContains MatchKind = "contains"
	MatchToken    MatchKind = "token"
)

// Rule maps a keyword to an account. Rules are evaluated in order.
type Rule struct {
	Keyword string    `yaml:"keyword"`
	Account string    `yaml:"account"`
	Match   MatchKind `yaml:"match,omitempty"`
}

func (r Rule) matches(desc string) bool {
	if r.Keyword == "" {
		return false
	}
	if r.Match == MatchToken {
		return textnorm.HasToken(desc, r.Keyword)
	}
	return strings.Contains(desc, textnorm.Normalize(r.Keyword))
}

// KeyPolicy controls which part of a description is used as the lookup key
// for the explicit map and the vendor index.
type KeyPolicy string

const (
	// KeyFull looks up the whole normalized description.
	KeyFull KeyPolicy = "full"
	// KeyFirstToken looks up only the first word; vendor keys are first words too.
	KeyFirstToken KeyPolicy = "first_token"
	// KeyFullOrFirstToken tries the whole description, then its first word.
	KeyFullOrFirstToken KeyPolicy = "full_or_first_token"
)

// Resolution is the outcome of classifying one description.
type Resolution struct {
	Name    string // counterparty, set for vendor and fuzzy matches
	Account string
	Source  model.ClassificationSource
	Score   float64 // fuzzy matches only
}

// Config holds the knowledge sources and tuning for a Classifier.
type Config struct {
	Explicit  []model.Mapping
	Vendors   []model.Mapping
	Rules     []Rule
	KeyPolicy KeyPolicy
	// Threshold is the minimum fuzzy score (0..100). Zero disables fuzzy matching.
	Threshold float64
	Scorer    Scorer
	Unknown   string
}

// Classifier is not safe for concurrent use: it owns a run-scoped cache.
type Classifier struct {
	explicit  *Index
	vendors   *Index
	rules     []Rule
	policy    KeyPolicy
	threshold float64
	scorer    Scorer
	unknown   string
	cache     *Cache
}

// New builds a Classifier with a fresh cache.
func New(cfg Config) *Classifier {
	policy := cfg.KeyPolicy
	if policy == "" {
		policy = KeyFullOrFirstToken
	}
	scorer := cfg.Scorer
	if scorer == nil {
		scorer = IndelRatio
	}
	rules := make([]Rule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		r.Keyword = textnorm.Normalize(r.Keyword)
		rules[i] = r
	}
	return &Classifier{
		explicit:  NewIndex(cfg.Explicit, KeyFull),
		vendors:   NewIndex(cfg.Vendors, policy),
		rules:     rules,
		policy:    policy,
		threshold: cfg.Threshold,
		scorer:    scorer,
		unknown:   cfg.Unknown,
		cache:     NewCache(),
	}
}

// Cache returns the run-scoped cache, for statistics.
func (c *Classifier) Cache() *Cache { return c.cache }

// Stats reports cache hits and misses for this run.
func (c *Classifier) Stats() (hits, misses int) { return c.cache.Stats() }

// Unknown returns the fallback account code.
func (c *Classifier) Unknown() string { return c.unknown }

// Classify resolves description to an account.
func (c *Classifier) Classify(description string) Resolution {
	key := textnorm.Normalize(description)
	if res, ok := c.cache.get(key); ok {
		return res
	}
	res := c.resolve(key)
	c.cache.put(key, res)
	return res
}

func (c *Classifier) resolve(key string) Resolution {
	if key == "" {
		return c.fallback()
	}

	for _, k := range c.explicitKeys(key) {
		if e, ok := c.explicit.Get(k); ok {
			return Resolution{Account: e.Code, Source: model.SourceExplicit}
		}
	}

	for _, k := range c.lookupKeys(key) {
		if e, ok := c.vendors.Get(k); ok {
			return Resolution{Name: e.Name, Account: e.Code, Source: model.SourceVendor}
		}
	}

	for _, r := range c.rules {
		if r.matches(key) {
			return Resolution{Account: r.Account, Source: model.SourceKeyword}
		}
	}

	if c.threshold > 0 {
		if e, score, ok := c.bestMatch(key); ok {
			return Resolution{Name: e.Name, Account: e.Code, Source: model.SourceFuzzy, Score: score}
		}
	}

	return c.fallback()
}

// explicitKeys always tries the whole description first; the explicit map is
// keyed on full names under every policy.
func (c *Classifier) explicitKeys(key string) []string {
	first := textnorm.FirstToken(key)
	if c.policy == KeyFull || first == key {
		return []string{key}
	}
	return []string{key, first}
}

func (c *Classifier) lookupKeys(key string) []string {
	first := textnorm.FirstToken(key)
	switch c.policy {
	case KeyFull:
		return []string{key}
	case KeyFirstToken:
		return []string{first}
	default:
		if first == key {
			return []string{key}
		}
		return []string{key, first}
	}
}

// bestMatch scans every vendor key; ties keep the first candidate seen.
func (c *Classifier) bestMatch(key string) (model.Mapping, float64, bool) {
	var best model.Mapping
	bestScore := -1.0
	for _, k := range c.vendors.Keys() {
		score := c.scorer(key, k)
		if score > bestScore {
			best, _ = c.vendors.Get(k)
			bestScore = score
		}
	}
	if bestScore < c.threshold {
		return model.Mapping{}, 0, false
	}
	return best, bestScore, true
}

func (c *Classifier) fallback() Resolution {
	return Resolution{Account: c.unknown, Source: model.SourceFallback}
}
