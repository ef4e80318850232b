package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/core/datamodel/user"
	userDomain "github.com/henryantwi/activity-tracker/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var model user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return userDomain.FromDataModel(&model), nil
}

func (r *Repository) List(ctx context.Context) ([]userDomain.Summary, error) {
	var summaries []userDomain.Summary
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Select("id", "name").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role string, isAdmin bool) error {
	result := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       role,
			"is_admin":   isAdmin,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
