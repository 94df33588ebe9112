package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/repository"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create item", err)
	}
	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection("items").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	return &item, nil
}

// List returns items of a kind, newest first. Firestore has no substring
// operator, so the search filter runs in memory over name, place and
// category; listing volumes here are small enough for that.
func (r *firestoreItemRepository) List(ctx context.Context, kind, search string) ([]*entity.Item, error) {
	query := r.client.Collection("items").
		Where("kind", "==", kind).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	needle := strings.ToLower(strings.TrimSpace(search))

	items := make([]*entity.Item, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate items", err)
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse item data", err)
		}
		if needle != "" && !matchesItem(&item, needle) {
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}

func matchesItem(item *entity.Item, needle string) bool {
	for _, field := range []string{item.Name, item.Place, item.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (r *firestoreItemRepository) ListByReporter(ctx context.Context, reporterID string) ([]*entity.Item, error) {
	query := r.client.Collection("items").
		Where("reporterId", "==", reporterID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch items", err)
	}

	items := make([]*entity.Item, 0, len(docs))
	for _, doc := range docs {
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse item data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *firestoreItemRepository) Update(ctx context.Context, item *entity.Item) error {
	item.UpdatedAt = time.Now()

	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to update item", err)
	}
	return nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("items").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete item", err)
	}
	return nil
}
