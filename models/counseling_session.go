package models

import (
	"time"
)

// Counseling session statuses. Transitions are one-directional:
// pending -> active -> completed, with cancellation legal from
// pending or active. Completed and cancelled are terminal.
const (
	SessionPending   = "pending"
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Urgency levels a student may attach to a request.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// SessionCategories is the fixed list of counseling topics.
var SessionCategories = []string{
	"Academic Stress",
	"Social Anxiety",
	"Depression & Mood",
	"Relationship Issues",
	"Identity & Self-Esteem",
	"Life Transitions",
}

// Message senders.
const (
	SenderUser      = "user"
	SenderCounselor = "counselor"
)

// CounselingSession is a peer-support conversation request, owned by the
// requesting student and referenced by the matched counselor.
type CounselingSession struct {
	ID          string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(50);index" json:"userId"`
	Category    string     `gorm:"type:varchar(50)" json:"category"`
	Urgency     string     `gorm:"type:varchar(20)" json:"urgency"`
	Status      string     `gorm:"type:varchar(20);index" json:"status"`
	CounselorID string     `gorm:"type:varchar(50)" json:"counselorId,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	Feedback    string     `gorm:"type:varchar(1000)" json:"feedback,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Messages []SessionMessage `gorm:"foreignKey:SessionID" json:"messages"`
}

// SessionMessage is one chat line inside a counseling session.
type SessionMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(50);index" json:"-"`
	Sender    string    `gorm:"type:varchar(20)" json:"sender"`
	Message   string    `gorm:"type:varchar(500)" json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func IsValidCategory(category string) bool {
	for _, c := range SessionCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidUrgency(urgency string) bool {
	return urgency == UrgencyLow || urgency == UrgencyMedium || urgency == UrgencyHigh
}

// IsOpen reports whether the session still occupies the student's single
// pending-or-active slot.
func (s *CounselingSession) IsOpen() bool {
	return s.Status == SessionPending || s.Status == SessionActive
}

// Duration is the session length in whole minutes. A session that never
// became active has no duration; an active session is measured up to now.
func (s *CounselingSession) Duration() int {
	if s.StartTime == nil {
		return 0
	}
	end := time.Now()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return int(end.Sub(*s.StartTime).Round(time.Minute) / time.Minute)
}

// ToResponse serializes the session with its derived duration.
func (s *CounselingSession) ToResponse() SessionResponse {
	msgs := s.Messages
	if msgs == nil {
		msgs = []SessionMessage{}
	}
	return SessionResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Category:    s.Category,
		Urgency:     s.Urgency,
		Status:      s.Status,
		CounselorID: s.CounselorID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Messages:    msgs,
		Rating:      s.Rating,
		Feedback:    s.Feedback,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Duration:    s.Duration(),
	}
}
