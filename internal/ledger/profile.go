package ledger

import (
	"strings"

	"github.com/cleared-dev/concilia/internal/classifier"
	"github.com/cleared-dev/concilia/internal/tabular"
	"github.com/cleared-dev/concilia/internal/textnorm"
)

// Layout names the shape of an entity's ledger report.
type Layout string

const (
	// LayoutMovement reports carry movement totals and detail lines in the
	// same file; the bank comes from the file name.
	LayoutMovement Layout = "movement"
	// LayoutBankColumn reports carry one row per movement and a bank column.
	LayoutBankColumn Layout = "bank_column"
)

// Posting selects how a classified line becomes a debit/credit pair.
type Posting string

const (
	// PostingStandard: debits hit the classified account against the bank;
	// credits hit the bank against the default credit account.
	PostingStandard Posting = "standard"
	// PostingInverted: credits hit the classified account against the bank;
	// debits hit the bank against the classified or default credit account.
	PostingInverted Posting = "inverted"
)

// Description templates.
const (
	DescriptionPlain = ""
	DescriptionNote  = "note"
)

// Reconciliation modes.
const (
	ModePerBank   = "per_bank"
	ModeAggregate = "aggregate"
)

// Route ties text found in a file name or bank column to a bank.
type Route struct {
	Match           []string `yaml:"match" validate:"required,min=1"`
	Bank            string   `yaml:"bank" validate:"required"`
	Account         string   `yaml:"account" validate:"required"`
	StatementFormat string   `yaml:"statement_format,omitempty"`
}

func (r Route) matches(text string) bool {
	for _, m := range r.Match {
		if m = textnorm.Normalize(m); m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Profile is the data that parameterizes the rule engine for one entity.
type Profile struct {
	Name      string `yaml:"name"`
	Layout    Layout `yaml:"layout" validate:"required,oneof=movement bank_column"`
	Encoding  string `yaml:"encoding,omitempty" validate:"omitempty,oneof=utf-8 latin-1 windows-1252"`
	Delimiter string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	HeaderRow int    `yaml:"header_row,omitempty" validate:"gte=0"`

	Routes       []Route `yaml:"routes" validate:"dive"`
	DefaultRoute *Route  `yaml:"default_route,omitempty"`

	Rules         []classifier.Rule    `yaml:"rules,omitempty"`
	KeywordsOnly  bool                 `yaml:"keywords_only,omitempty"`
	KeyPolicy     classifier.KeyPolicy `yaml:"key_policy,omitempty" validate:"omitempty,oneof=full first_token full_or_first_token"`
	Threshold     float64              `yaml:"fuzzy_threshold" validate:"gte=0,lte=100"`
	Scorer        string               `yaml:"scorer,omitempty" validate:"omitempty,oneof=indel levenshtein jaro_winkler"`
	Unknown       string               `yaml:"unknown" validate:"required"`
	CreditDefault string               `yaml:"credit_default" validate:"required"`

	Posting        Posting `yaml:"posting" validate:"required,oneof=standard inverted"`
	Description    string  `yaml:"description,omitempty" validate:"omitempty,oneof=note"`
	GroupKeyword   string  `yaml:"group_keyword,omitempty"`
	TransferFilter bool    `yaml:"transfer_filter,omitempty"`
	Mode           string  `yaml:"mode" validate:"required,oneof=per_bank aggregate"`
}

// Route finds the bank for a file name or bank-column value. The default
// route, if any, catches everything else.
func (p Profile) Route(text string) (Route, bool) {
	key := routeKey(text)
	for _, r := range p.Routes {
		if r.matches(key) {
			return r, true
		}
	}
	if p.DefaultRoute != nil {
		return *p.DefaultRoute, true
	}
	return Route{}, false
}

// routeKey normalizes file names too: "extrato_itau-matriz.pdf" -> "extrato itau matriz pdf".
func routeKey(s string) string {
	return textnorm.Normalize(strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s))
}

func (p Profile) tabularOptions() tabular.Options {
	opts := tabular.Options{Encoding: p.Encoding, HeaderRow: p.HeaderRow}
	if p.Delimiter != "" {
		opts.Delimiter = []rune(p.Delimiter)[0]
	}
	return opts
}

// DefaultProfiles returns the built-in entity profiles.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"imperio": imperioProfile(),
		"lm":      lmProfile(),
		"mecflu":  mecfluProfile(),
	}
}

func fileRoutes() []Route {
	return []Route{
		{Match: []string{"itau"}, Bank: "itau", Account: "25003", StatementFormat: "itau"},
		{Match: []string{"santander"}, Bank: "santander", Account: "15", StatementFormat: "santander"},
		{Match: []string{"brasil"}, Bank: "brasil", Account: "10", StatementFormat: "banco_brasil"},
	}
}

func imperioProfile() Profile {
	return Profile{
		Name:         "Imperio",
		Layout:       LayoutMovement,
		Encoding:     tabular.EncodingLatin1,
		Delimiter:    ";",
		Routes:       fileRoutes(),
		DefaultRoute: &Route{Match: []string{"*"}, Bank: "desconhecido", Account: "99999"},
		Rules: []classifier.Rule{
			{Keyword: "cartao", Account: "25011"},
			{Keyword: "rede", Account: "25011"},
			{Keyword: "juros", Account: "4701"},
			{Keyword: "tarifa", Account: "4698"},
			{Keyword: "cpfl", Account: "1739"},
			{Keyword: "energia", Account: "1739"},
			{Keyword: "salario", Account: "1634"},
			{Keyword: "holerite", Account: "1634"},
			{Keyword: "estagio", Account: "1634"},
			{Keyword: "colaborador", Account: "1634"},
			{Keyword: "ferias", Account: "312"},
			{Keyword: "seguro", Account: "1744"},
			{Keyword: "prolabore", Account: "1635"},
			{Keyword: "recisoes", Account: "4927"},
			{Keyword: "recisao", Account: "4927"},
			{Keyword: "inss", Account: "1659"},
			{Keyword: "fgts", Account: "1660"},
			{Keyword: "icms", Account: "1541"},
			{Keyword: "irpj", Account: "1545"},
			{Keyword: "csll", Account: "1553"},
			{Keyword: "pis", Account: "1556"},
			{Keyword: "cofins", Account: "1552"},
			{Keyword: "dare", Account: "1542"},
			{Keyword: "gare", Account: "1542"},
			{Keyword: "fabio", Account: "5034"},
		},
		KeywordsOnly:  true,
		Unknown:       "14010",
		CreditDefault: "142",
		Posting:       PostingInverted,
		Description:   DescriptionNote,
		GroupKeyword:  "rede",
		Mode:          ModePerBank,
	}
}

func lmProfile() Profile {
	return Profile{
		Name:      "LM",
		Layout:    LayoutBankColumn,
		Encoding:  tabular.EncodingUTF8,
		Delimiter: ";",
		Routes: []Route{
			{Match: []string{"caixa economica", "caixa"}, Bank: "caixa", Account: "20", StatementFormat: "caixa"},
			{Match: []string{"banco do brasil matriz", "brasil matriz"}, Bank: "brasil matriz", Account: "25007", StatementFormat: "banco_brasil"},
			{Match: []string{"banco do brasil filial", "brasil filial"}, Bank: "brasil filial", Account: "25008", StatementFormat: "banco_brasil"},
			{Match: []string{"banco itau matriz", "itau matriz"}, Bank: "itau matriz", Account: "25001", StatementFormat: "itau"},
			{Match: []string{"banco itau filial", "itau filial"}, Bank: "itau filial", Account: "25009", StatementFormat: "itau"},
			{Match: []string{"banco santander matriz", "santander matriz"}, Bank: "santander matriz", Account: "25065", StatementFormat: "santander"},
			{Match: []string{"banco santander filial", "santander filial"}, Bank: "santander filial", Account: "25066", StatementFormat: "santander"},
			{Match: []string{"mercado pago matriz"}, Bank: "mercadolivre matriz", Account: "25015", StatementFormat: "mercado_pago"},
			{Match: []string{"mercado pago filial"}, Bank: "mercadolivre filial", Account: "25016", StatementFormat: "mercado_pago"},
		},
		KeyPolicy:     classifier.KeyFull,
		Threshold:     88,
		Scorer:        classifier.ScorerIndel,
		Unknown:       "14010",
		CreditDefault: "142",
		Posting:       PostingStandard,
		Mode:          ModePerBank,
	}
}

func mecfluProfile() Profile {
	return Profile{
		Name:         "Mecflu",
		Layout:       LayoutMovement,
		Encoding:     tabular.EncodingLatin1,
		Delimiter:    ";",
		Routes:       append(fileRoutes(), Route{Match: []string{"caixa"}, Bank: "caixa", Account: "20", StatementFormat: "caixa"}),
		DefaultRoute: &Route{Match: []string{"*"}, Bank: "mecflu", Account: "99999", StatementFormat: "itau_tabela"},
		Rules: []classifier.Rule{
			{Keyword: "cartao", Account: "1737"},
			{Keyword: "credito", Account: "1737"},
			{Keyword: "juros", Account: "4701"},
			{Keyword: "tarifa", Account: "4698"},
			{Keyword: "salario", Account: "1634"},
			{Keyword: "holerite", Account: "1634"},
			{Keyword: "estagio", Account: "1634"},
			{Keyword: "prolabore", Account: "1635"},
			{Keyword: "pro-labore", Account: "1635"},
			{Keyword: "seguro", Account: "1744"},
			{Keyword: "energia", Account: "4477"},
			{Keyword: "nd", Account: "4582", Match: classifier.MatchToken},
		},
		KeyPolicy:      classifier.KeyFirstToken,
		Unknown:        "4951",
		CreditDefault:  "142",
		Posting:        PostingStandard,
		TransferFilter: true,
		Mode:           ModeAggregate,
	}
}
