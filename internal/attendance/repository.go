package attendance

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

func (r *Repository) All(ctx context.Context) ([]Record, error) {
	return store.Read[[]Record](ctx, r.collections, store.KeyAttendance)
}

func (r *Repository) Update(ctx context.Context, fn func(records *[]Record) error) error {
	return store.Mutate(ctx, r.collections, store.KeyAttendance, fn)
}
