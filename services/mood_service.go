package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

// Trend classifications for a user's recent mood-score average.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendWindow is the number of entries on each side of the trend
// comparison; trendThreshold is the mean-score gap that counts as a move.
const (
	trendWindow    = 7
	trendThreshold = 0.5
)

// MoodStats is the derived analytics view over one student's entries in
// a date window. It is recomputed on demand, never stored.
type MoodStats struct {
	Total             int              `json:"total"`
	AverageScore      float64          `json:"averageScore"`
	MoodDistribution  map[string]int64 `json:"moodDistribution"`
	NeedsSupportCount int              `json:"needsSupportCount"`
	RecentTrend       string           `json:"recentTrend"`
}

// MoodService validates and records daily mood entries and computes the
// rolling-window analytics over them.
type MoodService struct {
	moods store.MoodLogStore
	users store.UserStore
	log   *zap.SugaredLogger
}

func NewMoodService(moods store.MoodLogStore, users store.UserStore, logger *zap.SugaredLogger) *MoodService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MoodService{moods: moods, users: users, log: logger}
}

// LogMood records one entry for the given calendar day (default today).
// A second entry for the same user and day is a conflict.
func (s *MoodService) LogMood(userID, mood, notes string, date *time.Time) (*models.MoodLog, error) {
	if !models.IsValidMood(mood) {
		return nil, NewValidationError("Mood must be one of: " + strings.Join(models.ValidMoods, ", "))
	}
	if len(notes) > 500 {
		return nil, NewValidationError("notes cannot exceed 500 characters")
	}

	logDate := time.Now()
	if date != nil {
		logDate = *date
	}

	entry := &models.MoodLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Mood:      mood,
		Notes:     notes,
		Date:      logDate,
		CreatedAt: time.Now(),
	}
	if err := s.moods.Create(entry); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, NewConflictError("mood already logged for this date")
		}
		return nil, err
	}

	if err := s.users.AddMoodLogCount(userID, 1); err != nil {
		s.log.Errorw("mood counter update failed", "error", err, "userID", userID)
	}
	if entry.NeedsSupport() {
		// Advisory signal only; counselors review these from the
		// admin dashboard.
		s.log.Infow("student logged a low mood", "userID", userID, "mood", mood)
	}
	return entry, nil
}

// History pages through the caller's entries, newest first.
func (s *MoodService) History(userID string, days, page, limit int) ([]models.MoodLog, int64, error) {
	if days < 1 {
		days = 30
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.moods.ListByUser(userID, since, (page-1)*limit, limit)
}

// Stats computes the analytics over the caller's entries in the window.
func (s *MoodService) Stats(userID string, windowDays int) (*MoodStats, error) {
	if windowDays < 1 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	logs, err := s.moods.ListWindow(userID, since)
	if err != nil {
		return nil, err
	}

	stats := &MoodStats{
		MoodDistribution: map[string]int64{},
		RecentTrend:      TrendStable,
	}
	if len(logs) == 0 {
		return stats, nil
	}

	stats.Total = len(logs)
	var totalScore int
	for i := range logs {
		totalScore += logs[i].Score()
		stats.MoodDistribution[logs[i].Mood]++
		if logs[i].NeedsSupport() {
			stats.NeedsSupportCount++
		}
	}
	stats.AverageScore = float64(totalScore) / float64(len(logs))
	stats.RecentTrend = computeTrend(logs)
	return stats, nil
}

// computeTrend compares the mean score of the most recent trendWindow
// entries against the preceding trendWindow. Fewer than two full windows
// is insufficient data and reads as stable, not as an error.
func computeTrend(logs []models.MoodLog) string {
	if len(logs) < 2*trendWindow {
		return TrendStable
	}
	recent := logs[len(logs)-trendWindow:]
	previous := logs[len(logs)-2*trendWindow : len(logs)-trendWindow]

	recentAvg := meanScore(recent)
	previousAvg := meanScore(previous)

	switch {
	case recentAvg > previousAvg+trendThreshold:
		return TrendImproving
	case recentAvg < previousAvg-trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(logs []models.MoodLog) float64 {
	var sum int
	for i := range logs {
		sum += logs[i].Score()
	}
	return float64(sum) / float64(len(logs))
}

// UpdateNotes changes the notes of an owned entry; mood and date are
// immutable once logged.
func (s *MoodService) UpdateNotes(id, userID, notes string) (*models.MoodLog, error) {
	if len(notes) > 500 {
		return nil, NewValidationError("notes cannot exceed 500 characters")
	}
	if err := s.moods.UpdateNotes(id, userID, notes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("mood log not found")
		}
		return nil, err
	}
	return s.moods.GetOwned(id, userID)
}

// Delete removes an owned entry and decrements the lifetime counter.
func (s *MoodService) Delete(id, userID string) error {
	if err := s.moods.Delete(id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFoundError("mood log not found")
		}
		return err
	}
	if err := s.users.AddMoodLogCount(userID, -1); err != nil {
		s.log.Errorw("mood counter update failed", "error", err, "userID", userID)
	}
	return nil
}
