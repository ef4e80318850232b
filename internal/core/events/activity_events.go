package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeActivityStatusChanged = "activity.status_changed"
	EventTypeHandoverCreated       = "handover.created"
	EventTypeHandoverAcknowledged  = "handover.acknowledged"
)

type ActivityStatusChangedEvent struct {
	BaseEvent
	ActivityID     int64  `json:"activity_id"`
	ActorID        int64  `json:"actor_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Remarks        string `json:"remarks,omitempty"`
}

func NewActivityStatusChangedEvent(activityID, actorID int64, previousStatus, newStatus, remarks string) *ActivityStatusChangedEvent {
	return &ActivityStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeActivityStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"activity_id":     activityID,
				"actor_id":        actorID,
				"previous_status": previousStatus,
				"new_status":      newStatus,
				"remarks":         remarks,
			},
		},
		ActivityID:     activityID,
		ActorID:        actorID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		Remarks:        remarks,
	}
}

type HandoverCreatedEvent struct {
	BaseEvent
	HandoverID    int64 `json:"handover_id"`
	FromUserID    int64 `json:"from_user_id"`
	ToUserID      int64 `json:"to_user_id"`
	ActivityCount int   `json:"activity_count"`
}

func NewHandoverCreatedEvent(handoverID, fromUserID, toUserID int64, activityCount int) *HandoverCreatedEvent {
	return &HandoverCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeHandoverCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"handover_id":    handoverID,
				"from_user_id":   fromUserID,
				"to_user_id":     toUserID,
				"activity_count": activityCount,
			},
		},
		HandoverID:    handoverID,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		ActivityCount: activityCount,
	}
}

type HandoverAcknowledgedEvent struct {
	BaseEvent
	HandoverID     int64     `json:"handover_id"`
	AcknowledgedBy int64     `json:"acknowledged_by"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
}

func NewHandoverAcknowledgedEvent(handoverID, acknowledgedBy int64, acknowledgedAt time.Time) *HandoverAcknowledgedEvent {
	return &HandoverAcknowledgedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeHandoverAcknowledged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"handover_id":     handoverID,
				"acknowledged_by": acknowledgedBy,
				"acknowledged_at": acknowledgedAt,
			},
		},
		HandoverID:     handoverID,
		AcknowledgedBy: acknowledgedBy,
		AcknowledgedAt: acknowledgedAt,
	}
}
