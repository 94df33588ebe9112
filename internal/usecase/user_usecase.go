package usecase

import (
	"context"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/repository"
)

// UserUseCase maintains the local display-profile mirror of identities the
// external auth provider owns. No credentials pass through here.
type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile upserts the caller's display profile keyed by their
// verified identity. First write creates the mirror document.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, name, email string) (*entity.User, error) {
	user := &entity.User{
		ID:    userID,
		Name:  name,
		Email: email,
	}
	if existing, err := uc.userRepo.GetByID(ctx, userID); err == nil {
		user.CreatedAt = existing.CreatedAt
	}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
