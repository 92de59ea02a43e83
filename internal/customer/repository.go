package customer

import (
	"context"

	"github.com/frahmantamala/office-management/internal/store"
)

type Repository struct {
	collections *store.Collections
}

func NewRepository(collections *store.Collections) *Repository {
	return &Repository{collections: collections}
}

func (r *Repository) All(ctx context.Context) ([]Customer, error) {
	return store.Read[[]Customer](ctx, r.collections, store.KeyCustomers)
}

func (r *Repository) Update(ctx context.Context, fn func(customers *[]Customer) error) error {
	return store.Mutate(ctx, r.collections, store.KeyCustomers, fn)
}
