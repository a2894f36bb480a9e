// Package repo layers typed state on the document store. Each repository owns
// one document, guards its read-modify-write cycle with a mutex, and loads
// well-formed defaults when the document is absent or unreadable — corruption
// is treated as a fresh install, never as a fatal error.
package repo

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/infra/docstore"
	"go.uber.org/zap"
)

type AccessRepo struct {
	store  docstore.Store
	owner  string
	logger *zap.Logger

	mu sync.Mutex
}

func NewAccessRepo(store docstore.Store, owner string, logger *zap.Logger) *AccessRepo {
	return &AccessRepo{store: store, owner: owner, logger: logger}
}

// View returns a fresh snapshot of the entitlement state.
func (r *AccessRepo) View(ctx context.Context) *domain.AccessRoot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Update runs fn inside the store's critical section. fn reports whether it
// changed the state; the document is replaced in full only then. An fn error
// aborts without touching the store.
func (r *AccessRepo) Update(ctx context.Context, fn func(root *domain.AccessRoot) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	root := r.load(ctx)
	changed, err := fn(root)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return r.save(ctx, root)
}

func (r *AccessRepo) load(ctx context.Context) *domain.AccessRoot {
	data, ok, err := r.store.Load(ctx, docstore.DocAccess)
	if err != nil {
		r.logger.Warn("failed to load access state, starting from defaults", zap.Error(err))
		return r.defaultRoot()
	}
	if !ok {
		return r.defaultRoot()
	}

	var root domain.AccessRoot
	if err := json.Unmarshal(data, &root); err != nil {
		r.logger.Warn("corrupt access state, starting from defaults", zap.Error(err))
		return r.defaultRoot()
	}
	if root.Owner == "" {
		root.Owner = r.owner
	}
	if root.Users == nil {
		root.Users = make(map[string]*domain.User)
	}
	return &root
}

func (r *AccessRepo) save(ctx context.Context, root *domain.AccessRoot) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return r.store.Save(ctx, docstore.DocAccess, data)
}

func (r *AccessRepo) defaultRoot() *domain.AccessRoot {
	return &domain.AccessRoot{
		Owner:        r.owner,
		Users:        make(map[string]*domain.User),
		Requests:     []domain.AccessRequest{},
		CoinRequests: []domain.CoinAccessRequest{},
	}
}
