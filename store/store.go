// Package store is the persistence boundary of the portal. One contract
// covers users, mood logs, counseling sessions and resource bookmarks;
// a gorm-backed implementation serves production and an in-memory one
// serves tests.
package store

import (
	"errors"
	"time"

	"github.com/zjkm666/ust-legazpi-mhs/models"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a uniqueness rule or a status guard
	// rejects a write.
	ErrConflict = errors.New("store: conflict")
)

// UserFilter narrows user listings.
type UserFilter struct {
	Type       string
	Search     string
	ActiveOnly bool
	Offset     int
	Limit      int
}

// SessionFilter narrows counseling session listings.
type SessionFilter struct {
	UserID   string
	Status   string
	Category string
	Offset   int
	Limit    int
}

// DailyMoodPoint is one day of the campus-wide mood series.
type DailyMoodPoint struct {
	Day          time.Time `json:"day"`
	Count        int64     `json:"count"`
	AverageScore float64   `json:"averageScore"`
}

// StrugglingUser summarizes a student with recent low moods.
type StrugglingUser struct {
	UserID     string    `json:"userId"`
	Count      int64     `json:"count"`
	LatestMood string    `json:"latestMood"`
	LatestDate time.Time `json:"latestDate"`
}

type UserStore interface {
	// Create inserts the user, ErrConflict on a duplicate email.
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(u *models.User) error
	SetActive(id string, active bool) error
	List(f UserFilter) ([]models.User, int64, error)
	Count(f UserFilter) (int64, error)

	// Lifetime counter maintenance.
	AddMoodLogCount(id string, delta int) error
	AddSessionCount(id string, delta int) error
	SetBookmarkCount(id string, n int) error
}

type MoodLogStore interface {
	// Create inserts the entry, ErrConflict when the user already has an
	// entry on that calendar day. The check and insert are atomic.
	Create(log *models.MoodLog) error
	GetOwned(id, userID string) (*models.MoodLog, error)
	UpdateNotes(id, userID, notes string) error
	Delete(id, userID string) error
	// ListByUser returns entries since the given time, newest first.
	ListByUser(userID string, since time.Time, offset, limit int) ([]models.MoodLog, int64, error)
	// ListWindow returns entries since the given time, oldest first,
	// the ordering the trend computation depends on.
	ListWindow(userID string, since time.Time) ([]models.MoodLog, error)

	// Campus-wide aggregates for the admin dashboard.
	CountSince(since time.Time) (int64, error)
	DistributionSince(since time.Time) (map[string]int64, error)
	DailyAveragesSince(since time.Time) ([]DailyMoodPoint, error)
	StrugglingSince(since time.Time) ([]StrugglingUser, error)
}

type SessionStore interface {
	// CreateIfNoneOpen inserts the session unless the user already has a
	// pending or active one; the check and insert are atomic so two
	// concurrent requests cannot both land.
	CreateIfNoneOpen(s *models.CounselingSession) error
	GetOwned(id, userID string) (*models.CounselingSession, error)
	FindOpenByUser(userID string) (*models.CounselingSession, error)
	// Transition applies updates only while the current status is one of
	// from; ErrConflict once the session has moved on, ErrNotFound when
	// it does not exist. This is the guard stale timers rely on.
	Transition(id string, from []string, updates map[string]interface{}) error
	// AppendMessage adds a chat line while the session still has the
	// expected status.
	AppendMessage(sessionID, expectStatus string, msg *models.SessionMessage) error
	List(f SessionFilter) ([]models.CounselingSession, int64, error)
	CountByStatus(status string) (int64, error)
	CountAll() (int64, error)
	ListRecent(limit int) ([]models.CounselingSession, error)
}

type BookmarkStore interface {
	// Toggle flips the bookmark and returns whether it is now set and the
	// user's bookmark total.
	Toggle(userID, resourceID string) (added bool, total int64, err error)
	List(userID string) ([]string, error)
}
