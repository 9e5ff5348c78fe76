package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/concilia/internal/model"
)

func newTestClassifier(cfg Config) *Classifier {
	if cfg.Unknown == "" {
		cfg.Unknown = "14010"
	}
	return New(cfg)
}

func TestClassify_ExplicitMap(t *testing.T) {
	c := newTestClassifier(Config{
		Explicit: []model.Mapping{{Name: "acme", Code: "1001"}},
	})
	res := c.Classify("ACME LTDA")
	assert.Equal(t, "1001", res.Account)
	assert.Equal(t, model.SourceExplicit, res.Source)
	assert.Empty(t, res.Name)
}

func TestClassify_ExplicitBeatsEverything(t *testing.T) {
	c := newTestClassifier(Config{
		Explicit:  []model.Mapping{{Name: "Tarifa Bancária", Code: "9999"}},
		Vendors:   []model.Mapping{{Name: "tarifa bancaria", Code: "2002"}},
		Rules:     []Rule{{Keyword: "tarifa", Account: "4698"}},
		Threshold: 80,
	})
	assert.Equal(t, "9999", c.Classify("TARIFA BANCARIA").Account)
}

func TestClassify_VendorExact(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors: []model.Mapping{{Name: "Papelaria Central", Code: "3003"}},
		Rules:   []Rule{{Keyword: "central", Account: "1"}},
	})
	res := c.Classify("papelaria  CENTRAL")
	assert.Equal(t, "3003", res.Account)
	assert.Equal(t, "Papelaria Central", res.Name)
	assert.Equal(t, model.SourceVendor, res.Source)
}

func TestClassify_KeywordOrder(t *testing.T) {
	c := newTestClassifier(Config{
		Rules: []Rule{
			{Keyword: "cartão", Account: "25011"},
			{Keyword: "juros", Account: "4701"},
			{Keyword: "salário", Account: "1634"},
		},
	})
	tests := []struct {
		desc string
		want string
	}{
		{"JUROS CARTAO", "25011"},
		{"Juros de mora", "4701"},
		{"SALARIO JUNHO", "1634"},
		{"sem regra", "14010"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.desc).Account, "Classify(%q)", tt.desc)
	}
}

func TestClassify_TokenRule(t *testing.T) {
	c := newTestClassifier(Config{
		Rules: []Rule{{Keyword: "nd", Account: "4582", Match: MatchToken}},
	})
	assert.Equal(t, "4582", c.Classify("PAGTO ND 123").Account)
	assert.Equal(t, "14010", c.Classify("FUNDO").Account, "substring of a word must not match a token rule")
}

func TestClassify_FuzzyFallback(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors:   []model.Mapping{{Name: "fornecedor azul", Code: "2002"}},
		Threshold: 85,
		KeyPolicy: KeyFull,
	})

	res := c.Classify("FORNECEDOR AZl")
	assert.Equal(t, "2002", res.Account)
	assert.Equal(t, model.SourceFuzzy, res.Source)
	assert.Equal(t, "fornecedor azul", res.Name)
	assert.GreaterOrEqual(t, res.Score, 85.0)

	res = c.Classify("COMPLETELY UNRELATED TEXT")
	assert.Equal(t, "14010", res.Account)
	assert.Equal(t, model.SourceFallback, res.Source)
	assert.Empty(t, res.Name)
}

func TestClassify_FuzzyTieKeepsFirst(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors: []model.Mapping{
			{Name: "abcx", Code: "1"},
			{Name: "abcy", Code: "2"},
		},
		Threshold: 50,
		KeyPolicy: KeyFull,
	})
	assert.Equal(t, "1", c.Classify("abcz").Account)
}

func TestClassify_FuzzyDisabled(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors:   []model.Mapping{{Name: "fornecedor azul", Code: "2002"}},
		KeyPolicy: KeyFull,
	})
	assert.Equal(t, "14010", c.Classify("fornecedor azl").Account)
}

func TestClassify_FirstTokenPolicy(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors:   []model.Mapping{{Name: "ENERGISA S/A", Code: "4477"}},
		KeyPolicy: KeyFirstToken,
		Unknown:   "4951",
	})
	assert.Equal(t, "4477", c.Classify("energisa conta junho").Account)
	assert.Equal(t, "4951", c.Classify("conta energisa").Account)
}

func TestClassify_EmptyVendorIndexDegrades(t *testing.T) {
	c := newTestClassifier(Config{Threshold: 88})
	res := c.Classify("qualquer coisa")
	assert.Equal(t, "14010", res.Account)
	assert.Equal(t, model.SourceFallback, res.Source)
}

func TestClassify_EmptyDescription(t *testing.T) {
	c := newTestClassifier(Config{Rules: []Rule{{Keyword: "", Account: "1"}}})
	assert.Equal(t, "14010", c.Classify("   ").Account)
}

func TestClassify_Caches(t *testing.T) {
	c := newTestClassifier(Config{
		Vendors:   []model.Mapping{{Name: "fornecedor azul", Code: "2002"}},
		Threshold: 85,
	})
	first := c.Classify("Fornecedor Azl")
	second := c.Classify("FORNECEDOR   AZL")
	assert.Equal(t, first, second)

	hits, misses := c.Cache().Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, c.Cache().Len())
}

func TestIndex_FirstMappingWins(t *testing.T) {
	idx := NewIndex([]model.Mapping{
		{Name: "Acme", Code: "1"},
		{Name: "ACME", Code: "2"},
		{Name: "", Code: "3"},
		{Name: "blank code", Code: ""},
	}, KeyFull)
	require.Equal(t, 1, idx.Len())
	m, ok := idx.Get("acme")
	require.True(t, ok)
	assert.Equal(t, "1", m.Code)
}

func TestScorers(t *testing.T) {
	assert.InDelta(t, 100.0, IndelRatio("abc", "abc"), 0.001)
	assert.InDelta(t, 96.55, IndelRatio("fornecedor azl", "fornecedor azul"), 0.01)
	assert.InDelta(t, 100.0, IndelRatio("", ""), 0.001)
	assert.InDelta(t, 75.0, LevenshteinRatio("abcd", "abce"), 0.001)
	assert.InDelta(t, 100.0, JaroWinklerRatio("same", "same"), 0.001)

	for _, name := range []string{"", ScorerIndel, ScorerLevenshtein, ScorerJaroWinkler} {
		s, err := ScorerByName(name)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err := ScorerByName("soundex")
	assert.Error(t, err)
}
