package repository

import (
	"context"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// List returns items of the given kind, newest first, filtered by a
	// case-insensitive substring search over name, place and category when
	// search is non-empty.
	List(ctx context.Context, kind, search string) ([]*entity.Item, error)
	ListByReporter(ctx context.Context, reporterID string) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
}
