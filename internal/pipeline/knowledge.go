package pipeline

import (
	"context"

	"github.com/cleared-dev/concilia/internal/accounts"
	"github.com/cleared-dev/concilia/internal/ledger"
	"github.com/cleared-dev/concilia/internal/logger"
)

// LoadKnowledge reads the DE-PARA table and the supplier base. A missing or
// unreadable table is logged and treated as empty, so classification
// degrades to keyword rules and the fallback account.
func LoadKnowledge(ctx context.Context, deparaPath, suppliersPath string) ledger.Knowledge {
	log := logger.FromContext(ctx)

	depara, err := accounts.Load(deparaPath, accounts.DePara)
	if err != nil {
		log.Warn().Err(err).Str("file", deparaPath).Msg("DE-PARA table unavailable")
	}
	suppliers, err := accounts.Load(suppliersPath, accounts.Suppliers)
	if err != nil {
		log.Warn().Err(err).Str("file", suppliersPath).Msg("supplier base unavailable")
	} else if suppliers.Len() == 0 {
		log.Warn().Str("file", suppliersPath).Msg("supplier base is empty; fuzzy matching disabled")
	}

	return ledger.Knowledge{DePara: depara.All(), Suppliers: suppliers.All()}
}
