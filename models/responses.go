package models

import "time"

// UserProfile is the client-safe projection of a User.
type UserProfile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Type      string     `json:"type"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	StudentID string     `json:"studentId,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	YearLevel int        `json:"yearLevel,omitempty"`
	Course    string     `json:"course,omitempty"`
}

// MoodLogResponse is a MoodLog plus its derived analytics fields.
type MoodLogResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Mood         string    `json:"mood"`
	Notes        string    `json:"notes"`
	Date         time.Time `json:"date"`
	Timestamp    time.Time `json:"timestamp"`
	MoodScore    int       `json:"moodScore"`
	MoodEmoji    string    `json:"moodEmoji"`
	NeedsSupport bool      `json:"needsSupport"`
}

// SessionResponse is a CounselingSession plus its derived duration.
type SessionResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Category    string           `json:"category"`
	Urgency     string           `json:"urgency"`
	Status      string           `json:"status"`
	CounselorID string           `json:"counselorId,omitempty"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	Messages    []SessionMessage `json:"messages"`
	Rating      *int             `json:"rating,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Duration    int              `json:"duration"`
}

// Pagination describes a paged listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for a listing. A non-positive
// limit is treated as one item per page.
func NewPagination(page, limit int, total int64) Pagination {
	if limit < 1 {
		limit = 1
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
