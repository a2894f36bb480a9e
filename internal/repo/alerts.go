package repo

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"go.uber.org/zap"
)

type AlertRepo struct {
	store  docstore.Store
	logger *zap.Logger

	mu sync.Mutex
}

func NewAlertRepo(store docstore.Store, logger *zap.Logger) *AlertRepo {
	return &AlertRepo{store: store, logger: logger}
}

func (r *AlertRepo) View(ctx context.Context) domain.AlertBook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Update runs fn on the current book inside the store's critical section.
// The evaluation loop runs its whole cycle in here, so a user removing an
// alert cannot interleave with a trigger removal within this process.
func (r *AlertRepo) Update(ctx context.Context, fn func(book domain.AlertBook) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book := r.load(ctx)
	changed, err := fn(book)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return r.save(ctx, book)
}

func (r *AlertRepo) load(ctx context.Context) domain.AlertBook {
	data, ok, err := r.store.Load(ctx, docstore.DocAlerts)
	if err != nil {
		r.logger.Warn("failed to load alerts, starting empty", zap.Error(err))
		return domain.AlertBook{}
	}
	if !ok {
		return domain.AlertBook{}
	}

	var book domain.AlertBook
	if err := json.Unmarshal(data, &book); err != nil {
		r.logger.Warn("corrupt alert store, starting empty", zap.Error(err))
		return domain.AlertBook{}
	}
	if book == nil {
		book = domain.AlertBook{}
	}
	return book
}

func (r *AlertRepo) save(ctx context.Context, book domain.AlertBook) error {
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}
	return r.store.Save(ctx, docstore.DocAlerts, data)
}
