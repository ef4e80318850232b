package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
	handoverDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
	"github.com/henryantwi/activity-tracker/internal/handover"
)

// HandoverRepository implements the handover.Repository interface using GORM
type HandoverRepository struct {
	db *gorm.DB
}

func NewHandoverRepository(db *gorm.DB) handover.Repository {
	return &HandoverRepository{db: db}
}

type handoverRow struct {
	handoverDatamodel.DailyHandover
	FromUserName *string
	ToUserName   *string
}

func (row *handoverRow) toDomain() *handover.Handover {
	h := handover.FromDataModel(&row.DailyHandover)
	if row.FromUserName != nil {
		h.FromUserName = *row.FromUserName
	}
	if row.ToUserName != nil {
		h.ToUserName = *row.ToUserName
	}
	return h
}

func (r *HandoverRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("daily_handovers").
		Select(`daily_handovers.*,
			from_users.name AS from_user_name,
			to_users.name AS to_user_name`).
		Joins("LEFT JOIN users from_users ON from_users.id = daily_handovers.from_user_id").
		Joins("LEFT JOIN users to_users ON to_users.id = daily_handovers.to_user_id")
}

// CreateWithTransfer persists the handover and reassigns the underlying
// activities in the same transaction when a transfer target is given. The
// reassignment never alters the stored snapshots.
func (r *HandoverRepository) CreateWithTransfer(ctx context.Context, h *handover.Handover, transferToUserID *int64, activityIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := handover.ToDataModel(h)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		h.ID = model.ID
		h.CreatedAt = model.CreatedAt

		if transferToUserID != nil && len(activityIDs) > 0 {
			err := tx.Model(&activityDatamodel.Activity{}).
				Where("id IN ?", activityIDs).
				Updates(map[string]interface{}{
					"assigned_to": *transferToUserID,
					"updated_at":  time.Now(),
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *HandoverRepository) GetByID(ctx context.Context, id int64) (*handover.Handover, error) {
	var row handoverRow
	err := r.baseQuery(ctx).
		Where("daily_handovers.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHandoverNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *HandoverRepository) List(ctx context.Context, filter handover.ListFilter) ([]*handover.Handover, int64, error) {
	query := r.baseQuery(ctx)
	countQuery := r.db.WithContext(ctx).Table("daily_handovers")

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Date != nil {
			q = q.Where("daily_handovers.handover_date = ?", filter.Date.Format("2006-01-02"))
		}
		if filter.FromUserID != 0 {
			q = q.Where("daily_handovers.from_user_id = ?", filter.FromUserID)
		}
		if filter.ToUserID != 0 {
			q = q.Where("daily_handovers.to_user_id = ?", filter.ToUserID)
		}
		if filter.Acknowledged != nil {
			q = q.Where("daily_handovers.is_acknowledged = ?", *filter.Acknowledged)
		}
		if filter.VisibleToUserID != 0 {
			q = q.Where("daily_handovers.from_user_id = ? OR daily_handovers.to_user_id = ?",
				filter.VisibleToUserID, filter.VisibleToUserID)
		}
		return q
	}

	var total int64
	if err := apply(countQuery).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []handoverRow
	err := apply(query).
		Order("daily_handovers.handover_time DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	handovers := make([]*handover.Handover, 0, len(rows))
	for i := range rows {
		handovers = append(handovers, rows[i].toDomain())
	}
	return handovers, total, nil
}

// Acknowledge flips both acknowledgment fields in one write. The guard on
// is_acknowledged makes a concurrent second call a no-op at the database
// level; it surfaces as the same denial the policy produces.
func (r *HandoverRepository) Acknowledge(ctx context.Context, id int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&handoverDatamodel.DailyHandover{}).
		Where("id = ? AND is_acknowledged = ?", id, false).
		Updates(map[string]interface{}{
			"is_acknowledged": true,
			"acknowledged_at": at,
			"updated_at":      at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewForbiddenError("handover has already been acknowledged")
	}
	return nil
}

func (r *HandoverRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&handoverDatamodel.DailyHandover{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrHandoverNotFound
	}
	return nil
}
