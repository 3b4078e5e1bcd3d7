package models

import "time"

// Mood values a student may log, best to worst.
const (
	MoodExcellent  = "excellent"
	MoodGood       = "good"
	MoodOkay       = "okay"
	MoodDifficult  = "difficult"
	MoodStruggling = "struggling"
)

// ValidMoods is the fixed five-value mood enum.
var ValidMoods = []string{MoodExcellent, MoodGood, MoodOkay, MoodDifficult, MoodStruggling}

var moodScores = map[string]int{
	MoodExcellent:  5,
	MoodGood:       4,
	MoodOkay:       3,
	MoodDifficult:  2,
	MoodStruggling: 1,
}

var moodEmojis = map[string]string{
	MoodExcellent:  "😊",
	MoodGood:       "🙂",
	MoodOkay:       "😐",
	MoodDifficult:  "😟",
	MoodStruggling: "😢",
}

// MoodLog is one student's self-reported mood for a single calendar day.
// At most one row exists per (user, day); only the notes are mutable.
type MoodLog struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"userId"`
	Mood      string    `gorm:"type:varchar(20)" json:"mood"`
	Notes     string    `gorm:"type:varchar(500)" json:"notes"`
	Date      time.Time `gorm:"index" json:"date"`
	CreatedAt time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
}

func IsValidMood(mood string) bool {
	_, ok := moodScores[mood]
	return ok
}

// Score maps the mood onto the 1..5 analytics scale, 0 for unknown values.
func (m *MoodLog) Score() int {
	return moodScores[m.Mood]
}

func (m *MoodLog) Emoji() string {
	if e, ok := moodEmojis[m.Mood]; ok {
		return e
	}
	return moodEmojis[MoodOkay]
}

// NeedsSupport reports whether the mood falls in the low band that the
// portal treats as a sign the student may need help.
func (m *MoodLog) NeedsSupport() bool {
	return m.Mood == MoodDifficult || m.Mood == MoodStruggling
}

// ToResponse attaches the derived fields a client expects alongside the row.
func (m *MoodLog) ToResponse() MoodLogResponse {
	return MoodLogResponse{
		ID:           m.ID,
		UserID:       m.UserID,
		Mood:         m.Mood,
		Notes:        m.Notes,
		Date:         m.Date,
		Timestamp:    m.CreatedAt,
		MoodScore:    m.Score(),
		MoodEmoji:    m.Emoji(),
		NeedsSupport: m.NeedsSupport(),
	}
}
