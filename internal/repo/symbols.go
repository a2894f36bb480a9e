package repo

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"go.uber.org/zap"
)

// defaultSymbols seeds the registry on first start, matching the map the
// previous deployment shipped with.
func defaultSymbols() map[string]string {
	return map[string]string{
		"btc":   "bitcoin",
		"eth":   "ethereum",
		"bnb":   "binancecoin",
		"sol":   "solana",
		"ada":   "cardano",
		"doge":  "dogecoin",
		"xrp":   "ripple",
		"meme":  "meme",
		"moxie": "moxie",
		"degen": "degen-base",
		"op":    "optimism",
	}
}

type SymbolRepo struct {
	store  docstore.Store
	logger *zap.Logger

	mu sync.Mutex
}

func NewSymbolRepo(store docstore.Store, logger *zap.Logger) *SymbolRepo {
	return &SymbolRepo{store: store, logger: logger}
}

func (r *SymbolRepo) View(ctx context.Context) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *SymbolRepo) Update(ctx context.Context, fn func(symbols map[string]string) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbols := r.load(ctx)
	changed, err := fn(symbols)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return r.save(ctx, symbols)
}

func (r *SymbolRepo) load(ctx context.Context) map[string]string {
	data, ok, err := r.store.Load(ctx, docstore.DocSymbols)
	if err != nil {
		r.logger.Warn("failed to load symbol map, using defaults", zap.Error(err))
		return defaultSymbols()
	}
	if !ok {
		return defaultSymbols()
	}

	var symbols map[string]string
	if err := json.Unmarshal(data, &symbols); err != nil {
		r.logger.Warn("corrupt symbol map, using defaults", zap.Error(err))
		return defaultSymbols()
	}
	if symbols == nil {
		symbols = defaultSymbols()
	}
	return symbols
}

func (r *SymbolRepo) save(ctx context.Context, symbols map[string]string) error {
	data, err := json.MarshalIndent(symbols, "", "  ")
	if err != nil {
		return err
	}
	return r.store.Save(ctx, docstore.DocSymbols, data)
}
