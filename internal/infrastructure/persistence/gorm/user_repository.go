package gorm

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartmeal/core/internal/domain/user"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// UserRepository implements the user profile repository using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user profile by id
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel

	result := dbFromContext(ctx, r.db).First(&model, "id = ?", id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewUserNotFoundError(id.String())
		}
		return nil, translateError(result.Error, "find user", "user")
	}

	u, err := ModelToUser(&model)
	if err != nil {
		return nil, errors.NewDatabaseError("map user row", err)
	}

	return u, nil
}

// Exists reports whether the user id is known
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64

	result := dbFromContext(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", id).
		Count(&count)
	if result.Error != nil {
		return false, translateError(result.Error, "check user exists", "user")
	}

	return count > 0, nil
}
