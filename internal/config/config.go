package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/concilia/internal/accounts"
	"github.com/cleared-dev/concilia/internal/classifier"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/logger"
)

// FileName is the configuration file written by init.
const FileName = "concilia.yaml"

// Environment overrides.
const (
	EnvConfig    = "CONCILIA_CONFIG"
	EnvOutputDir = "CONCILIA_OUTPUT_DIR"
	EnvDePara    = "CONCILIA_DEPARA"
	EnvSuppliers = "CONCILIA_SUPPLIERS"
	EnvLogLevel  = "CONCILIA_LOG_LEVEL"
)

// Config represents the top-level concilia.yaml configuration.
type Config struct {
	Paths      PathsConfig               `yaml:"paths"`
	Classifier ClassifierConfig          `yaml:"classifier"`
	Log        LogConfig                 `yaml:"log"`
	Git        GitConfig                 `yaml:"git"`
	Report     ReportConfig              `yaml:"report"`
	Entities   map[string]ledger.Profile `yaml:"entities" validate:"required,min=1,dive"`
}

// PathsConfig locates the knowledge tables and the output directory.
// Relative paths are resolved against the directory holding the config file.
type PathsConfig struct {
	DePara    string `yaml:"depara" validate:"required"`
	Suppliers string `yaml:"suppliers" validate:"required"`
	Output    string `yaml:"output"` // empty means ~/Desktop
}

// ClassifierConfig holds run-wide fuzzy matching settings.
type ClassifierConfig struct {
	// FuzzyThreshold, when set, replaces the threshold of every entity that
	// has fuzzy matching enabled.
	FuzzyThreshold *float64 `yaml:"fuzzy_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	// Scorer is used by entities that do not name one.
	Scorer string `yaml:"scorer" validate:"omitempty,oneof=indel levenshtein jaro_winkler"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ReportConfig controls the exported files.
type ReportConfig struct {
	TXTEncoding string `yaml:"txt_encoding" validate:"omitempty,oneof=utf-8 windows-1252"`
}

// LoadEnv reads a .env file into the process environment. Without a path,
// a .env in the working directory is loaded if present.
func LoadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}
	_ = godotenv.Load()
	return nil
}

// PathFromEnv returns the config path named by CONCILIA_CONFIG, or fallback.
func PathFromEnv(fallback string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return fallback
}

// Load reads a concilia.yaml file from disk, applies environment overrides,
// resolves relative paths and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyEnv()
	cfg.resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in entity profiles.
func Default() *Config {
	threshold := 88.0
	depara, suppliers := accounts.DefaultPaths("config")
	return &Config{
		Paths: PathsConfig{
			DePara:    depara,
			Suppliers: suppliers,
		},
		Classifier: ClassifierConfig{
			FuzzyThreshold: &threshold,
			Scorer:         classifier.ScorerIndel,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logger.FormatConsole,
		},
		Git: GitConfig{
			AuthorName:  "Concilia",
			AuthorEmail: "concilia@localhost",
		},
		Report: ReportConfig{
			TXTEncoding: "utf-8",
		},
		Entities: ledger.DefaultProfiles(),
	}
}

// ApplyEnv overrides file settings with CONCILIA_* variables.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvOutputDir: &c.Paths.Output,
		EnvDePara:    &c.Paths.DePara,
		EnvSuppliers: &c.Paths.Suppliers,
		EnvLogLevel:  &c.Log.Level,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Paths.DePara, &c.Paths.Suppliers, &c.Paths.Output} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// OutputDir returns the configured output directory, defaulting to the
// user's Desktop, then the working directory.
func (c *Config) OutputDir() string {
	if c.Paths.Output != "" {
		return c.Paths.Output
	}
	if home, err := os.UserHomeDir(); err == nil {
		desktop := filepath.Join(home, "Desktop")
		if info, err := os.Stat(desktop); err == nil && info.IsDir() {
			return desktop
		}
	}
	return "."
}

// Profiles returns the entity profiles with the run-wide classifier
// settings applied.
func (c *Config) Profiles() map[string]ledger.Profile {
	out := make(map[string]ledger.Profile, len(c.Entities))
	for name, p := range c.Entities {
		if p.Scorer == "" {
			p.Scorer = c.Classifier.Scorer
		}
		if c.Classifier.FuzzyThreshold != nil && p.Threshold > 0 && !p.KeywordsOnly {
			p.Threshold = *c.Classifier.FuzzyThreshold
		}
		out[strings.ToLower(name)] = p
	}
	return out
}

// EntityNames returns the configured entity ids, sorted.
func (c *Config) EntityNames() []string {
	names := make([]string, 0, len(c.Entities))
	for name := range c.Entities {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)
	return names
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte", "lte", "min", "len":
		return fmt.Sprintf("%s fails %s=%s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is not a valid %s", field, fe.Tag())
	}
}
