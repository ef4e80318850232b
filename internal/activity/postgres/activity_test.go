package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	activityPostgres "github.com/henryantwi/activity-tracker/internal/activity/postgres"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
)

func TestActivityPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Activity Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID       int64  `gorm:"primaryKey"`
	Email    string `gorm:"column:email;uniqueIndex"`
	Name     string `gorm:"column:name"`
	Role     string `gorm:"column:role"`
	IsActive bool   `gorm:"column:is_active"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteActivity struct {
	ID          int64          `gorm:"primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description"`
	Priority    string         `gorm:"column:priority"`
	Category    string         `gorm:"column:category"`
	Status      string         `gorm:"column:status"`
	DueDate     *time.Time     `gorm:"column:due_date"`
	CreatedBy   int64          `gorm:"column:created_by"`
	AssignedTo  *int64         `gorm:"column:assigned_to"`
	Metadata    []byte         `gorm:"column:metadata"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (SQLiteActivity) TableName() string {
	return "activities"
}

type SQLiteActivityUpdate struct {
	ID           int64     `gorm:"primaryKey"`
	ActivityID   int64     `gorm:"column:activity_id;index"`
	UserID       int64     `gorm:"column:user_id"`
	Status       string    `gorm:"column:status"`
	Remarks      string    `gorm:"column:remarks"`
	PreviousData []byte    `gorm:"column:previous_data"`
	NewData      []byte    `gorm:"column:new_data"`
	UpdateTime   time.Time `gorm:"column:update_time"`
	IPAddress    string    `gorm:"column:ip_address"`
	UserAgent    string    `gorm:"column:user_agent"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (SQLiteActivityUpdate) TableName() string {
	return "activity_updates"
}

var _ = Describe("Activity PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo activity.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteActivity{}, &SQLiteActivityUpdate{})
		Expect(err).NotTo(HaveOccurred())

		users := []SQLiteUser{
			{ID: 1, Email: "kofi@example.com", Name: "Kofi Mensah", Role: "member", IsActive: true},
			{ID: 2, Email: "abena@example.com", Name: "Abena Osei", Role: "member", IsActive: true},
		}
		Expect(db.Create(&users).Error).NotTo(HaveOccurred())

		repo = activityPostgres.NewActivityRepository(db)
	})

	newActivity := func(title string, createdBy int64, assignedTo *int64) *activity.Activity {
		now := time.Now()
		return &activity.Activity{
			Title:      title,
			Priority:   activity.PriorityMedium,
			Category:   activity.CategoryDevelopment,
			Status:     activity.StatusPending,
			CreatedBy:  createdBy,
			AssignedTo: assignedTo,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	Describe("Create and GetByID", func() {
		It("should persist an activity and read it back with denormalized names", func() {
			assignee := int64(2)
			a := newActivity("Wire up the staging pipeline", 1, &assignee)

			Expect(repo.Create(ctx, a)).To(Succeed())
			Expect(a.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Wire up the staging pipeline"))
			Expect(got.CreatorName).To(Equal("Kofi Mensah"))
			Expect(got.AssigneeName).To(Equal("Abena Osei"))
			Expect(got.UpdateCount).To(BeZero())
		})

		It("should return a not-found error for unknown ids", func() {
			_, err := repo.GetByID(ctx, 9999)

			Expect(err).To(MatchError(apperrors.ErrActivityNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			assignee := int64(2)
			Expect(repo.Create(ctx, newActivity("Fix login redirect loop", 1, nil))).To(Succeed())
			Expect(repo.Create(ctx, newActivity("Write release notes", 1, &assignee))).To(Succeed())

			b := newActivity("Prepare status meeting agenda", 2, nil)
			b.Status = activity.StatusCompleted
			b.Category = activity.CategoryMeeting
			Expect(repo.Create(ctx, b)).To(Succeed())
		})

		It("should filter by status", func() {
			activities, total, err := repo.List(ctx, activity.ListFilter{Status: activity.StatusCompleted, Limit: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(activities).To(HaveLen(1))
			Expect(activities[0].Title).To(Equal("Prepare status meeting agenda"))
		})

		It("should restrict to activities the user created or is assigned", func() {
			activities, total, err := repo.List(ctx, activity.ListFilter{VisibleToUserID: 2, Limit: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			titles := []string{activities[0].Title, activities[1].Title}
			Expect(titles).To(ContainElements("Write release notes", "Prepare status meeting agenda"))
		})

		It("should search in title and description", func() {
			activities, total, err := repo.List(ctx, activity.ListFilter{Search: "release", Limit: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(activities[0].Title).To(Equal("Write release notes"))
		})

		It("should page results while reporting the full count", func() {
			activities, total, err := repo.List(ctx, activity.ListFilter{Limit: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(activities).To(HaveLen(2))
		})
	})

	Describe("SoftDelete", func() {
		It("should hide the activity from reads and report missing ids", func() {
			a := newActivity("Throwaway task", 1, nil)
			Expect(repo.Create(ctx, a)).To(Succeed())

			Expect(repo.SoftDelete(ctx, a.ID)).To(Succeed())

			_, err := repo.GetByID(ctx, a.ID)
			Expect(err).To(MatchError(apperrors.ErrActivityNotFound))

			Expect(repo.SoftDelete(ctx, a.ID)).To(MatchError(apperrors.ErrActivityNotFound))
		})
	})

	Describe("ApplyStatusChange", func() {
		var created *activity.Activity

		BeforeEach(func() {
			created = newActivity("Deploy to staging", 1, nil)
			Expect(repo.Create(ctx, created)).To(Succeed())
		})

		buildUpdate := func(a *activity.Activity, newStatus string) *activityDatamodel.ActivityUpdate {
			previous := a.Snapshot()
			a.Status = newStatus
			a.UpdatedAt = time.Now()
			next := a.Snapshot()
			return &activityDatamodel.ActivityUpdate{
				ActivityID:   a.ID,
				UserID:       1,
				Status:       newStatus,
				Remarks:      "moving along",
				PreviousData: previous,
				NewData:      next,
				UpdateTime:   a.UpdatedAt,
			}
		}

		It("should update the status and append the audit row atomically", func() {
			update := buildUpdate(created, activity.StatusInProgress)

			Expect(repo.ApplyStatusChange(ctx, created.ID, activity.StatusInProgress, update)).To(Succeed())

			got, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(activity.StatusInProgress))
			Expect(got.UpdateCount).To(Equal(int64(1)))

			updates, err := repo.ListUpdates(ctx, created.ID, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(HaveLen(1))
			Expect(updates[0].PreviousData.Status).To(Equal(activity.StatusPending))
			Expect(updates[0].NewData.Status).To(Equal(activity.StatusInProgress))
			Expect(updates[0].UserName).To(Equal("Kofi Mensah"))
		})

		It("should fail for a missing activity without writing an audit row", func() {
			update := buildUpdate(created, activity.StatusCompleted)
			update.ActivityID = 9999

			err := repo.ApplyStatusChange(ctx, 9999, activity.StatusCompleted, update)

			Expect(err).To(MatchError(apperrors.ErrActivityNotFound))

			updates, err := repo.ListUpdates(ctx, 9999, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(BeEmpty())
		})

		It("should return updates most recent first", func() {
			first := buildUpdate(created, activity.StatusInProgress)
			first.UpdateTime = time.Now().Add(-time.Hour)
			Expect(repo.ApplyStatusChange(ctx, created.ID, activity.StatusInProgress, first)).To(Succeed())

			second := buildUpdate(created, activity.StatusCompleted)
			Expect(repo.ApplyStatusChange(ctx, created.ID, activity.StatusCompleted, second)).To(Succeed())

			updates, err := repo.ListUpdates(ctx, created.ID, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(HaveLen(2))
			Expect(updates[0].Status).To(Equal(activity.StatusCompleted))
			Expect(updates[1].Status).To(Equal(activity.StatusInProgress))
		})
	})
})
