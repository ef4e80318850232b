package auth

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	activitymodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
	handovermodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
)

var _ = ginkgo.Describe("Policy", func() {
	var (
		policy  *Policy
		admin   *User
		manager *User
		member  *User
		other   *User
	)

	ginkgo.BeforeEach(func() {
		policy = NewPolicy()
		admin = &User{ID: 1, Role: RoleAdmin, IsAdmin: true, IsActive: true}
		manager = &User{ID: 2, Role: RoleManager, IsActive: true}
		member = &User{ID: 3, Role: RoleMember, IsActive: true}
		other = &User{ID: 4, Role: RoleMember, IsActive: true}
	})

	newActivity := func(createdBy int64, assignedTo *int64) *activitymodel.Activity {
		return &activitymodel.Activity{
			ID:         10,
			Title:      "Review deployment checklist",
			Status:     "pending",
			CreatedBy:  createdBy,
			AssignedTo: assignedTo,
		}
	}

	ginkgo.Describe("CanViewActivity", func() {
		ginkgo.It("allows admins to view any activity", func() {
			a := newActivity(member.ID, nil)
			gomega.Expect(policy.CanViewActivity(admin, a)).To(gomega.BeNil())
		})

		ginkgo.It("allows managers to view any activity", func() {
			a := newActivity(member.ID, nil)
			gomega.Expect(policy.CanViewActivity(manager, a)).To(gomega.BeNil())
		})

		ginkgo.It("allows the creator to view their own activity", func() {
			a := newActivity(member.ID, nil)
			gomega.Expect(policy.CanViewActivity(member, a)).To(gomega.BeNil())
		})

		ginkgo.It("allows the assignee to view the activity", func() {
			a := newActivity(member.ID, &other.ID)
			gomega.Expect(policy.CanViewActivity(other, a)).To(gomega.BeNil())
		})

		ginkgo.It("denies unrelated members", func() {
			a := newActivity(member.ID, nil)
			denied := policy.CanViewActivity(other, a)
			gomega.Expect(denied).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("CanDeleteActivity", func() {
		ginkgo.It("denies the assignee when they did not create the activity", func() {
			a := newActivity(member.ID, &other.ID)
			denied := policy.CanDeleteActivity(other, a)
			gomega.Expect(denied).ToNot(gomega.BeNil())
			gomega.Expect(denied.Message).To(gomega.ContainSubstring("only the creator or an administrator"))
		})

		ginkgo.It("allows the creator", func() {
			a := newActivity(member.ID, &other.ID)
			gomega.Expect(policy.CanDeleteActivity(member, a)).To(gomega.BeNil())
		})

		ginkgo.It("allows admins", func() {
			a := newActivity(member.ID, nil)
			gomega.Expect(policy.CanDeleteActivity(admin, a)).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("CanViewReports", func() {
		ginkgo.It("allows admins and managers", func() {
			gomega.Expect(policy.CanViewReports(admin)).To(gomega.BeNil())
			gomega.Expect(policy.CanViewReports(manager)).To(gomega.BeNil())
		})

		ginkgo.It("denies members", func() {
			gomega.Expect(policy.CanViewReports(member)).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("CanAcknowledgeHandover", func() {
		newHandover := func(acknowledged bool) *handovermodel.DailyHandover {
			h := &handovermodel.DailyHandover{
				ID:           20,
				FromUserID:   member.ID,
				ToUserID:     other.ID,
				HandoverDate: time.Now(),
			}
			if acknowledged {
				now := time.Now()
				h.IsAcknowledged = true
				h.AcknowledgedAt = &now
			}
			return h
		}

		ginkgo.It("allows the receiving user", func() {
			gomega.Expect(policy.CanAcknowledgeHandover(other, newHandover(false))).To(gomega.BeNil())
		})

		ginkgo.It("allows admins on behalf of the receiver", func() {
			gomega.Expect(policy.CanAcknowledgeHandover(admin, newHandover(false))).To(gomega.BeNil())
		})

		ginkgo.It("denies the sender", func() {
			gomega.Expect(policy.CanAcknowledgeHandover(member, newHandover(false))).ToNot(gomega.BeNil())
		})

		ginkgo.It("denies a second acknowledgement even for admins", func() {
			denied := policy.CanAcknowledgeHandover(admin, newHandover(true))
			gomega.Expect(denied).ToNot(gomega.BeNil())
			gomega.Expect(denied.Message).To(gomega.Equal("handover has already been acknowledged"))
		})
	})

	ginkgo.Describe("CanModifyHandover", func() {
		ginkgo.It("allows the sender while unacknowledged", func() {
			h := &handovermodel.DailyHandover{FromUserID: member.ID, ToUserID: other.ID}
			gomega.Expect(policy.CanModifyHandover(member, h)).To(gomega.BeNil())
		})

		ginkgo.It("denies the sender once acknowledged", func() {
			h := &handovermodel.DailyHandover{FromUserID: member.ID, ToUserID: other.ID, IsAcknowledged: true}
			gomega.Expect(policy.CanModifyHandover(member, h)).ToNot(gomega.BeNil())
		})

		ginkgo.It("allows admins regardless", func() {
			h := &handovermodel.DailyHandover{FromUserID: member.ID, ToUserID: other.ID, IsAcknowledged: true}
			gomega.Expect(policy.CanModifyHandover(admin, h)).To(gomega.BeNil())
		})
	})
})
