package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/buslinehq/busline/internal/account/domain"
	pkgApp "github.com/buslinehq/busline/pkg/application"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

func NewGormUserRepository(db *gorm.DB, logger pkgApp.AppLogger) domain.UserRepository {
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &pkgDomain.ConflictError{Reason: "email already registered"}
		}
		pkgApp.LogError(ctx, r.logger, "failed to create user", err, map[string]interface{}{
			"email": user.Email,
		})
		return &pkgDomain.StorageError{Op: "create user", Err: err}
	}
	return nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, &pkgDomain.NotFoundError{Entity: "user", Key: email}
	}
	if err != nil {
		return domain.User{}, &pkgDomain.StorageError{Op: "find user by email", Err: err}
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, &pkgDomain.NotFoundError{Entity: "user", Key: id}
	}
	if err != nil {
		return domain.User{}, &pkgDomain.StorageError{Op: "find user by id", Err: err}
	}
	return user, nil
}
