package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
)

// ActivityRepository implements the activity.Repository interface using GORM
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

// activityRow is the read shape: the stored columns plus names denormalized
// from the users table and the audit row count.
type activityRow struct {
	activityDatamodel.Activity
	CreatorName  *string
	AssigneeName *string
	UpdateCount  int64
}

func (row *activityRow) toDomain() *activity.Activity {
	a := activity.FromDataModel(&row.Activity)
	if row.CreatorName != nil {
		a.CreatorName = *row.CreatorName
	}
	if row.AssigneeName != nil {
		a.AssigneeName = *row.AssigneeName
	}
	a.UpdateCount = row.UpdateCount
	return a
}

const activitySelect = `activities.*,
	creator.name AS creator_name,
	assignee.name AS assignee_name,
	(SELECT COUNT(*) FROM activity_updates au WHERE au.activity_id = activities.id) AS update_count`

func (r *ActivityRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("activities").
		Select(activitySelect).
		Joins("LEFT JOIN users creator ON creator.id = activities.created_by").
		Joins("LEFT JOIN users assignee ON assignee.id = activities.assigned_to").
		Where("activities.deleted_at IS NULL")
}

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	model := activity.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*activity.Activity, error) {
	var row activityRow
	err := r.baseQuery(ctx).
		Where("activities.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ActivityRepository) List(ctx context.Context, filter activity.ListFilter) ([]*activity.Activity, int64, error) {
	query := r.baseQuery(ctx)
	countQuery := r.db.WithContext(ctx).
		Table("activities").
		Where("activities.deleted_at IS NULL")

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("activities.status = ?", filter.Status)
		}
		if filter.Priority != "" {
			q = q.Where("activities.priority = ?", filter.Priority)
		}
		if filter.Category != "" {
			q = q.Where("activities.category = ?", filter.Category)
		}
		if filter.UserID != 0 {
			q = q.Where("activities.created_by = ? OR activities.assigned_to = ?", filter.UserID, filter.UserID)
		}
		if filter.VisibleToUserID != 0 {
			q = q.Where("activities.created_by = ? OR activities.assigned_to = ?", filter.VisibleToUserID, filter.VisibleToUserID)
		}
		if filter.DateFrom != nil {
			q = q.Where("activities.created_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			q = q.Where("activities.created_at <= ?", *filter.DateTo)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where("activities.title LIKE ? OR activities.description LIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := apply(countQuery).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []activityRow
	err := apply(query).
		Order("activities.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	activities := make([]*activity.Activity, 0, len(rows))
	for i := range rows {
		activities = append(activities, rows[i].toDomain())
	}
	return activities, total, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	model := activity.ToDataModel(a)
	return r.db.WithContext(ctx).
		Model(&activityDatamodel.Activity{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"title":       model.Title,
			"description": model.Description,
			"priority":    model.Priority,
			"category":    model.Category,
			"due_date":    model.DueDate,
			"assigned_to": model.AssignedTo,
			"metadata":    model.Metadata,
			"updated_at":  model.UpdatedAt,
		}).Error
}

func (r *ActivityRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&activityDatamodel.Activity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrActivityNotFound
	}
	return nil
}

// ApplyStatusChange writes the status mutation and its audit row in one
// transaction so a failure partway through leaves no partial state.
func (r *ActivityRepository) ApplyStatusChange(ctx context.Context, activityID int64, newStatus string, update *activityDatamodel.ActivityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&activityDatamodel.Activity{}).
			Where("id = ?", activityID).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"updated_at": update.UpdateTime,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrActivityNotFound
		}

		return tx.Create(update).Error
	})
}

func (r *ActivityRepository) ListUpdates(ctx context.Context, activityID int64, limit, offset int) ([]*activity.Update, error) {
	type updateRow struct {
		activityDatamodel.ActivityUpdate
		UserName *string
	}

	var rows []updateRow
	err := r.db.WithContext(ctx).
		Table("activity_updates").
		Select("activity_updates.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = activity_updates.user_id").
		Where("activity_updates.activity_id = ?", activityID).
		Order("activity_updates.update_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	updates := make([]*activity.Update, 0, len(rows))
	for i := range rows {
		u := activity.UpdateFromDataModel(&rows[i].ActivityUpdate)
		if rows[i].UserName != nil {
			u.UserName = *rows[i].UserName
		}
		updates = append(updates, u)
	}
	return updates, nil
}
