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
	handoverDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
	"github.com/henryantwi/activity-tracker/internal/handover"
	handoverPostgres "github.com/henryantwi/activity-tracker/internal/handover/postgres"
)

func TestHandoverPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Handover Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteUser struct {
	ID       int64  `gorm:"primaryKey"`
	Email    string `gorm:"column:email;uniqueIndex"`
	Name     string `gorm:"column:name"`
	IsActive bool   `gorm:"column:is_active"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteActivity struct {
	ID         int64     `gorm:"primaryKey"`
	Title      string    `gorm:"column:title"`
	Status     string    `gorm:"column:status"`
	CreatedBy  int64     `gorm:"column:created_by"`
	AssignedTo *int64         `gorm:"column:assigned_to"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (SQLiteActivity) TableName() string {
	return "activities"
}

type SQLiteDailyHandover struct {
	ID             int64      `gorm:"primaryKey"`
	FromUserID     int64      `gorm:"column:from_user_id"`
	ToUserID       int64      `gorm:"column:to_user_id"`
	HandoverDate   time.Time  `gorm:"column:handover_date"`
	ShiftSummary   string     `gorm:"column:shift_summary"`
	PendingTasks   string     `gorm:"column:pending_tasks"`
	ImportantNotes string     `gorm:"column:important_notes"`
	ActivitiesData []byte     `gorm:"column:activities_data"`
	HandoverTime   time.Time  `gorm:"column:handover_time"`
	IsAcknowledged bool       `gorm:"column:is_acknowledged"`
	AcknowledgedAt *time.Time `gorm:"column:acknowledged_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (SQLiteDailyHandover) TableName() string {
	return "daily_handovers"
}

var _ = Describe("Handover PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo handover.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteActivity{}, &SQLiteDailyHandover{})
		Expect(err).NotTo(HaveOccurred())

		users := []SQLiteUser{
			{ID: 3, Email: "kofi@example.com", Name: "Kofi Mensah", IsActive: true},
			{ID: 4, Email: "abena@example.com", Name: "Abena Osei", IsActive: true},
		}
		Expect(db.Create(&users).Error).NotTo(HaveOccurred())

		repo = handoverPostgres.NewHandoverRepository(db)
	})

	newHandover := func(from, to int64) *handover.Handover {
		now := time.Now()
		return &handover.Handover{
			FromUserID:   from,
			ToUserID:     to,
			HandoverDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			ShiftSummary: "End of shift summary",
			ActivitiesData: handoverDatamodel.SnapshotList{
				{ID: 10, Title: "Finish migration dry run", Status: "in_progress", Priority: "high"},
			},
			HandoverTime: now,
			CreatedAt:    now,
		}
	}

	Describe("CreateWithTransfer", func() {
		It("should persist the handover without touching activities when no transfer is requested", func() {
			h := newHandover(3, 4)

			Expect(repo.CreateWithTransfer(ctx, h, nil, nil)).To(Succeed())
			Expect(h.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(ctx, h.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ShiftSummary).To(Equal("End of shift summary"))
			Expect(got.FromUserName).To(Equal("Kofi Mensah"))
			Expect(got.ToUserName).To(Equal("Abena Osei"))
			Expect(got.ActivitiesData).To(HaveLen(1))
			Expect(got.ActivitiesData[0].Title).To(Equal("Finish migration dry run"))
		})

		It("should reassign the listed activities when a transfer target is given", func() {
			creator := int64(3)
			Expect(db.Create(&SQLiteActivity{ID: 10, Title: "Finish migration dry run", Status: "in_progress", CreatedBy: creator, AssignedTo: &creator}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&SQLiteActivity{ID: 11, Title: "Untouched task", Status: "pending", CreatedBy: creator, AssignedTo: &creator}).Error).NotTo(HaveOccurred())

			h := newHandover(3, 4)
			target := int64(4)

			Expect(repo.CreateWithTransfer(ctx, h, &target, []int64{10})).To(Succeed())

			var transferred SQLiteActivity
			Expect(db.First(&transferred, 10).Error).NotTo(HaveOccurred())
			Expect(*transferred.AssignedTo).To(Equal(target))

			var untouched SQLiteActivity
			Expect(db.First(&untouched, 11).Error).NotTo(HaveOccurred())
			Expect(*untouched.AssignedTo).To(Equal(creator))
		})
	})

	Describe("GetByID", func() {
		It("should return a not-found error for unknown ids", func() {
			_, err := repo.GetByID(ctx, 9999)

			Expect(err).To(MatchError(apperrors.ErrHandoverNotFound))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			Expect(repo.CreateWithTransfer(ctx, newHandover(3, 4), nil, nil)).To(Succeed())
			Expect(repo.CreateWithTransfer(ctx, newHandover(4, 3), nil, nil)).To(Succeed())
			stranger := newHandover(4, 4)
			stranger.FromUserID = 7
			stranger.ToUserID = 8
			Expect(repo.CreateWithTransfer(ctx, stranger, nil, nil)).To(Succeed())
		})

		It("should restrict rows to handovers the user sent or received", func() {
			handovers, total, err := repo.List(ctx, handover.ListFilter{VisibleToUserID: 3, Limit: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(handovers).To(HaveLen(2))
		})

		It("should filter by acknowledgement state", func() {
			acknowledged := true
			handovers, total, err := repo.List(ctx, handover.ListFilter{Acknowledged: &acknowledged, Limit: 10})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
			Expect(handovers).To(BeEmpty())
		})
	})

	Describe("Acknowledge", func() {
		It("should set both acknowledgement fields exactly once", func() {
			h := newHandover(3, 4)
			Expect(repo.CreateWithTransfer(ctx, h, nil, nil)).To(Succeed())

			at := time.Now()
			Expect(repo.Acknowledge(ctx, h.ID, at)).To(Succeed())

			got, err := repo.GetByID(ctx, h.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsAcknowledged).To(BeTrue())
			Expect(got.AcknowledgedAt).NotTo(BeNil())

			err = repo.Acknowledge(ctx, h.ID, time.Now())
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("handover has already been acknowledged"))
		})
	})

	Describe("Delete", func() {
		It("should remove the handover and report missing ids", func() {
			h := newHandover(3, 4)
			Expect(repo.CreateWithTransfer(ctx, h, nil, nil)).To(Succeed())

			Expect(repo.Delete(ctx, h.ID)).To(Succeed())
			Expect(repo.Delete(ctx, h.ID)).To(MatchError(apperrors.ErrHandoverNotFound))

			_, err := repo.GetByID(ctx, h.ID)
			Expect(err).To(MatchError(apperrors.ErrHandoverNotFound))
		})
	})
})
