package activity_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	"github.com/henryantwi/activity-tracker/internal/auth"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
	"github.com/henryantwi/activity-tracker/internal/core/events"
)

func TestActivityService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Activity Service Suite")
}

type mockActivityRepository struct {
	activities map[int64]*activity.Activity
	updates    map[int64][]*activity.Update
	lastFilter activity.ListFilter
	repoError  error
	nextID     int64
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{
		activities: make(map[int64]*activity.Activity),
		updates:    make(map[int64][]*activity.Update),
		nextID:     1,
	}
}

func (m *mockActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	if m.repoError != nil {
		return m.repoError
	}
	a.ID = m.nextID
	m.nextID++
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityRepository) GetByID(ctx context.Context, id int64) (*activity.Activity, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	a, exists := m.activities[id]
	if !exists {
		return nil, apperrors.ErrActivityNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockActivityRepository) List(ctx context.Context, filter activity.ListFilter) ([]*activity.Activity, int64, error) {
	if m.repoError != nil {
		return nil, 0, m.repoError
	}
	m.lastFilter = filter
	out := make([]*activity.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		if filter.VisibleToUserID != 0 {
			assigned := a.AssignedTo != nil && *a.AssignedTo == filter.VisibleToUserID
			if a.CreatedBy != filter.VisibleToUserID && !assigned {
				continue
			}
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *mockActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	if m.repoError != nil {
		return m.repoError
	}
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityRepository) SoftDelete(ctx context.Context, id int64) error {
	if m.repoError != nil {
		return m.repoError
	}
	if _, exists := m.activities[id]; !exists {
		return apperrors.ErrActivityNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *mockActivityRepository) ApplyStatusChange(ctx context.Context, activityID int64, newStatus string, update *activityDatamodel.ActivityUpdate) error {
	if m.repoError != nil {
		return m.repoError
	}
	a, exists := m.activities[activityID]
	if !exists {
		return apperrors.ErrActivityNotFound
	}
	a.Status = newStatus
	m.updates[activityID] = append(m.updates[activityID], &activity.Update{
		ActivityID:   update.ActivityID,
		UserID:       update.UserID,
		Status:       update.Status,
		Remarks:      update.Remarks,
		PreviousData: update.PreviousData,
		NewData:      update.NewData,
		UpdateTime:   update.UpdateTime,
		IPAddress:    update.IPAddress,
		UserAgent:    update.UserAgent,
	})
	return nil
}

func (m *mockActivityRepository) ListUpdates(ctx context.Context, activityID int64, limit, offset int) ([]*activity.Update, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	return m.updates[activityID], nil
}

var _ = Describe("ActivityService", func() {
	var (
		service  *activity.Service
		mockRepo *mockActivityRepository
		admin    *auth.User
		member   *auth.User
		other    *auth.User
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockActivityRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		eventBus := events.NewEventBus(logger)
		service = activity.NewService(mockRepo, auth.NewPolicy(), eventBus, logger)

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsAdmin: true, IsActive: true}
		member = &auth.User{ID: 3, Role: auth.RoleMember, IsActive: true}
		other = &auth.User{ID: 4, Role: auth.RoleMember, IsActive: true}
	})

	Describe("CreateActivity", func() {
		It("should apply defaults for priority, status and assignee", func() {
			a, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:    "Investigate flaky nightly build",
				Category: activity.CategoryDevelopment,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(a.Priority).To(Equal(activity.PriorityMedium))
			Expect(a.Status).To(Equal(activity.StatusPending))
			Expect(a.CreatedBy).To(Equal(member.ID))
			Expect(a.AssignedTo).ToNot(BeNil())
			Expect(*a.AssignedTo).To(Equal(member.ID))
		})

		It("should keep an explicit assignee", func() {
			a, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:      "Pair on incident review",
				Category:   activity.CategoryMeeting,
				AssignedTo: &other.ID,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(*a.AssignedTo).To(Equal(other.ID))
		})

		It("should reject an unknown category", func() {
			_, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:    "Bad category",
				Category: "gardening",
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("should reject a missing title", func() {
			_, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Category: activity.CategoryTesting,
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListActivities", func() {
		BeforeEach(func() {
			_, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:    "Member task",
				Category: activity.CategoryDevelopment,
			})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateActivity(ctx, other, activity.CreateActivityDTO{
				Title:    "Other member task",
				Category: activity.CategoryTesting,
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should scope members to their own activities", func() {
			activities, total, err := service.ListActivities(ctx, member, activity.ListFilter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(activities).To(HaveLen(1))
			Expect(mockRepo.lastFilter.VisibleToUserID).To(Equal(member.ID))
		})

		It("should let admins see everything", func() {
			_, total, err := service.ListActivities(ctx, admin, activity.ListFilter{})

			Expect(err).ToNot(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(mockRepo.lastFilter.VisibleToUserID).To(BeZero())
		})

		It("should clamp an oversized limit", func() {
			_, _, err := service.ListActivities(ctx, admin, activity.ListFilter{Limit: 5000})

			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.lastFilter.Limit).To(Equal(20))
		})
	})

	Describe("ApplyStatusChange", func() {
		var created *activity.Activity

		BeforeEach(func() {
			var err error
			created, err = service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:    "Ship the release notes",
				Category: activity.CategoryDocumentation,
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should change the status and append an audit record with both snapshots", func() {
			meta := activity.RequestMeta{IPAddress: "10.0.0.5", UserAgent: "curl/8.0"}

			updated, err := service.ApplyStatusChange(ctx, member, created.ID, activity.UpdateStatusDTO{
				Status:  activity.StatusInProgress,
				Remarks: "picking this up",
			}, meta)

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(activity.StatusInProgress))

			records := mockRepo.updates[created.ID]
			Expect(records).To(HaveLen(1))
			Expect(records[0].PreviousData.Status).To(Equal(activity.StatusPending))
			Expect(records[0].NewData.Status).To(Equal(activity.StatusInProgress))
			Expect(records[0].Remarks).To(Equal("picking this up"))
			Expect(records[0].UserID).To(Equal(member.ID))
			Expect(records[0].IPAddress).To(Equal("10.0.0.5"))
			Expect(records[0].UserAgent).To(Equal("curl/8.0"))
		})

		It("should still append an audit record when the status does not change", func() {
			_, err := service.ApplyStatusChange(ctx, member, created.ID, activity.UpdateStatusDTO{
				Status:  activity.StatusPending,
				Remarks: "still blocked on upstream",
			}, activity.RequestMeta{})

			Expect(err).ToNot(HaveOccurred())
			records := mockRepo.updates[created.ID]
			Expect(records).To(HaveLen(1))
			Expect(records[0].PreviousData.Status).To(Equal(activity.StatusPending))
			Expect(records[0].NewData.Status).To(Equal(activity.StatusPending))
		})

		It("should reject an invalid status value", func() {
			_, err := service.ApplyStatusChange(ctx, member, created.ID, activity.UpdateStatusDTO{
				Status: "done",
			}, activity.RequestMeta{})

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("should deny unrelated members", func() {
			_, err := service.ApplyStatusChange(ctx, other, created.ID, activity.UpdateStatusDTO{
				Status: activity.StatusCompleted,
			}, activity.RequestMeta{})

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeForbidden))
		})
	})

	Describe("UpdateActivity", func() {
		It("should apply only the provided fields", func() {
			created, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:       "Original title",
				Description: "original description",
				Category:    activity.CategoryResearch,
			})
			Expect(err).ToNot(HaveOccurred())

			newTitle := "Renamed title"
			updated, err := service.UpdateActivity(ctx, member, created.ID, activity.UpdateActivityDTO{
				Title: &newTitle,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Title).To(Equal("Renamed title"))
			Expect(updated.Description).To(Equal("original description"))
			Expect(updated.Category).To(Equal(activity.CategoryResearch))
		})
	})

	Describe("DeleteActivity", func() {
		It("should deny an assignee who is not the creator", func() {
			created, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:      "Handover doc cleanup",
				Category:   activity.CategoryMaintenance,
				AssignedTo: &other.ID,
			})
			Expect(err).ToNot(HaveOccurred())

			err = service.DeleteActivity(ctx, other, created.ID)

			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeForbidden))
		})

		It("should let the creator delete", func() {
			created, err := service.CreateActivity(ctx, member, activity.CreateActivityDTO{
				Title:    "Scratch task",
				Category: activity.CategoryOther,
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.DeleteActivity(ctx, member, created.ID)).To(Succeed())

			_, err = service.GetActivity(ctx, member, created.ID)
			Expect(err).To(MatchError(apperrors.ErrActivityNotFound))
		})
	})
})
