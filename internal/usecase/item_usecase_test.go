package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
)

type fakeItemRepo struct {
	items map[string]*entity.Item
	order map[string]int
	seq   int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items: make(map[string]*entity.Item),
		order: make(map[string]int),
	}
}

func (f *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	f.seq++
	if item.ID == "" {
		item.ID = fmt.Sprintf("item%d", f.seq)
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	f.items[item.ID] = item
	f.order[item.ID] = f.seq
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return item, nil
}

func (f *fakeItemRepo) List(_ context.Context, kind, search string) ([]*entity.Item, error) {
	needle := strings.ToLower(search)
	var out []*entity.Item
	for _, item := range f.items {
		if item.Kind != kind {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Place), needle) &&
			!strings.Contains(strings.ToLower(item.Category), needle) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return f.order[out[i].ID] > f.order[out[j].ID] })
	return out, nil
}

func (f *fakeItemRepo) ListByReporter(_ context.Context, reporterID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range f.items {
		if item.ReporterID == reporterID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return errors.NotFound("Item", nil)
	}
	item.UpdatedAt = time.Now()
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func newItemFixture() (*ItemUseCase, *fakeItemRepo) {
	repo := newFakeItemRepo()
	return NewItemUseCase(repo, newFakeUserRepo("alice", "bob")), repo
}

func TestCreateItem(t *testing.T) {
	uc, _ := newItemFixture()
	ctx := context.Background()

	item, err := uc.CreateItem(ctx, "alice", entity.ItemKindLost, ItemInput{
		Name:     "Blue wallet",
		Place:    "Main library",
		Category: "accessories",
		Contact:  "alice@example.com",
		DateTime: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemKindLost, item.Kind)
	assert.Equal(t, "alice", item.ReporterID)
	assert.Equal(t, "User alice", item.ReporterName)

	_, err = uc.CreateItem(ctx, "alice", "misplaced", ItemInput{Name: "x"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestListItemsSearch(t *testing.T) {
	uc, _ := newItemFixture()
	ctx := context.Background()

	_, err := uc.CreateItem(ctx, "alice", entity.ItemKindLost, ItemInput{Name: "Blue wallet", Place: "Library", Category: "accessories"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, "bob", entity.ItemKindLost, ItemInput{Name: "Umbrella", Place: "Cafeteria", Category: "other"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, "bob", entity.ItemKindFound, ItemInput{Name: "Black wallet", Place: "Gym", Category: "accessories"})
	require.NoError(t, err)

	lost, err := uc.ListItems(ctx, entity.ItemKindLost, "")
	require.NoError(t, err)
	assert.Len(t, lost, 2)
	// Newest first.
	assert.Equal(t, "Umbrella", lost[0].Name)

	matches, err := uc.ListItems(ctx, entity.ItemKindLost, "WALLET")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Blue wallet", matches[0].Name)

	found, err := uc.ListItems(ctx, entity.ItemKindFound, "gym")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestUpdateItemOwnerOnly(t *testing.T) {
	uc, repo := newItemFixture()
	ctx := context.Background()

	item, err := uc.CreateItem(ctx, "alice", entity.ItemKindLost, ItemInput{
		Name:     "Blue wallet",
		Place:    "Library",
		Category: "accessories",
		ImageURL: "https://example.com/old.jpg",
	})
	require.NoError(t, err)

	_, err = uc.UpdateItem(ctx, "bob", item.ID, ItemInput{Name: "Stolen wallet"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// An empty image keeps the existing one.
	updated, err := uc.UpdateItem(ctx, "alice", item.ID, ItemInput{
		Name:     "Blue leather wallet",
		Place:    "Library",
		Category: "accessories",
	})
	require.NoError(t, err)
	assert.Equal(t, "Blue leather wallet", updated.Name)
	assert.Equal(t, "https://example.com/old.jpg", updated.ImageURL)

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue leather wallet", stored.Name)
}

func TestDeleteItemOwnerOnly(t *testing.T) {
	uc, repo := newItemFixture()
	ctx := context.Background()

	item, err := uc.CreateItem(ctx, "alice", entity.ItemKindFound, ItemInput{Name: "Keys", Place: "Parking lot", Category: "other"})
	require.NoError(t, err)

	assert.True(t, errors.Is(uc.DeleteItem(ctx, "bob", item.ID), "FORBIDDEN"))
	require.NoError(t, uc.DeleteItem(ctx, "alice", item.ID))

	_, err = repo.GetByID(ctx, item.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
