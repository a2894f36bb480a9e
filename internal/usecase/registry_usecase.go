package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/repo"
	"go.uber.org/zap"
)

// RegistryUsecase owns the symbol → canonical id mapping. Lookups go through
// an in-memory cache that is loaded at startup and refreshed synchronously
// with the persisted copy on every successful Register, so a new symbol is
// visible to the next command immediately.
type RegistryUsecase struct {
	symbols *repo.SymbolRepo
	access  *repo.AccessRepo
	quotes  domain.QuoteSource
	logger  *zap.Logger

	mu    sync.RWMutex
	cache map[string]string
}

func NewRegistryUsecase(symbols *repo.SymbolRepo, access *repo.AccessRepo, quotes domain.QuoteSource, logger *zap.Logger) *RegistryUsecase {
	return &RegistryUsecase{symbols: symbols, access: access, quotes: quotes, logger: logger}
}

// Reload replaces the cache with the persisted symbol map. Called once during
// startup wiring.
func (u *RegistryUsecase) Reload(ctx context.Context) {
	symbols := u.symbols.View(ctx)
	u.mu.Lock()
	u.cache = symbols
	u.mu.Unlock()
}

// Resolve maps a display symbol to its canonical quote-source identifier.
// Symbols are case-insensitive and stored lowercase.
func (u *RegistryUsecase) Resolve(symbol string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.cache[normalizeSymbol(symbol)]
	return id, ok
}

// Symbols returns a copy of the current symbol map for display.
func (u *RegistryUsecase) Symbols() map[string]string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make(map[string]string, len(u.cache))
	for symbol, id := range u.cache {
		out[symbol] = id
	}
	return out
}

// Register adds a new symbol. Owner-only; the canonical id is validated with
// a single quote lookup before it is accepted. Identifiers are never
// re-validated afterwards — a stale id just stops producing quotes.
func (u *RegistryUsecase) Register(ctx context.Context, callerID, symbol, coinID string) error {
	symbol = normalizeSymbol(symbol)
	coinID = strings.ToLower(strings.TrimSpace(coinID))
	if symbol == "" || coinID == "" {
		return domain.ErrInvalidArguments
	}

	if !u.access.View(ctx).IsOwner(callerID) {
		return domain.ErrNotAuthorized
	}
	if _, exists := u.Resolve(symbol); exists {
		return domain.ErrAlreadyExists
	}

	_, found, err := u.quotes.Price(ctx, coinID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrValidationFailed
	}

	var snapshot map[string]string
	err = u.symbols.Update(ctx, func(symbols map[string]string) (bool, error) {
		if _, exists := symbols[symbol]; exists {
			return false, domain.ErrAlreadyExists
		}
		symbols[symbol] = coinID
		snapshot = make(map[string]string, len(symbols))
		for s, id := range symbols {
			snapshot[s] = id
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.cache = snapshot
	u.mu.Unlock()

	u.logger.Info("symbol registered", zap.String("symbol", symbol), zap.String("coin_id", coinID))
	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}
