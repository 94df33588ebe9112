package usecase

import (
	"context"
	"time"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/repository"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
	"github.com/xujalz/Lost-And-Found/pkg/logger"
)

// ItemUseCase handles lost and found item reports. Plain request/response
// plumbing around the item store; the messaging core never depends on it.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

func NewItemUseCase(itemRepo repository.ItemRepository, userRepo repository.UserRepository) *ItemUseCase {
	return &ItemUseCase{
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

type ItemInput struct {
	Name        string
	Description string
	Place       string
	Category    string
	Contact     string
	DateTime    time.Time
	ImageURL    string
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, reporterID, kind string, input ItemInput) (*entity.Item, error) {
	if kind != entity.ItemKindLost && kind != entity.ItemKindFound {
		return nil, errors.BadRequest("Item kind must be lost or found", nil)
	}

	item := &entity.Item{
		Kind:        kind,
		Name:        input.Name,
		Description: input.Description,
		Place:       input.Place,
		Category:    input.Category,
		Contact:     input.Contact,
		DateTime:    input.DateTime,
		ImageURL:    input.ImageURL,
		ReporterID:  reporterID,
	}

	if reporter, err := uc.userRepo.GetByID(ctx, reporterID); err == nil {
		item.ReporterName = reporter.Name
	} else {
		logger.Warn("item: reporter %s has no profile: %v", reporterID, err)
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ItemUseCase) ListItems(ctx context.Context, kind, search string) ([]*entity.Item, error) {
	return uc.itemRepo.List(ctx, kind, search)
}

func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	return uc.itemRepo.GetByID(ctx, id)
}

func (uc *ItemUseCase) ListMyItems(ctx context.Context, reporterID string) ([]*entity.Item, error) {
	return uc.itemRepo.ListByReporter(ctx, reporterID)
}

// UpdateItem replaces the report's describable fields. Only the reporter
// may update their own report; an empty ImageURL keeps the existing image.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, userID, itemID string, input ItemInput) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ReporterID != userID {
		return nil, errors.Forbidden("You can only update your own reports", nil)
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Place = input.Place
	item.Category = input.Category
	item.Contact = input.Contact
	item.DateTime = input.DateTime
	if input.ImageURL != "" {
		item.ImageURL = input.ImageURL
	}

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *ItemUseCase) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.ReporterID != userID {
		return errors.Forbidden("You can only delete your own reports", nil)
	}

	return uc.itemRepo.Delete(ctx, itemID)
}
