package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cleared-dev/concilia/internal/config"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/logger"
)

// load reads the configuration and builds the logging context. A missing
// config file is only an error when the user named one; otherwise the
// built-in defaults apply.
func (g *globals) load() (*config.Config, context.Context, error) {
	if err := config.LoadEnv(g.envFile); err != nil {
		return nil, nil, err
	}

	explicit := g.configPath != config.FileName || os.Getenv(config.EnvConfig) != ""
	path := config.PathFromEnv(g.configPath)

	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = config.Default()
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}

	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	log, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.WithContext(context.Background(), log), nil
}

// profile returns the configured profile for entity.
func profile(cfg *config.Config, entity string) (ledger.Profile, error) {
	p, ok := cfg.Profiles()[strings.ToLower(entity)]
	if !ok {
		return ledger.Profile{}, fmt.Errorf("%q: %w (known: %v)", entity, ledger.ErrUnknownEntity, cfg.EntityNames())
	}
	return p, nil
}
