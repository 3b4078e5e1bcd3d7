package models

import "time"

// Resource is one entry of the static mental-health resource catalog.
// The catalog is loaded once at startup and never mutated; entries are
// addressed by a stable slug, not by position.
type Resource struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Specialties []string `json:"specialties"`
	Cost        string   `json:"cost,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Rating      float64  `json:"rating"`
}

// CrisisContact is a hotline surfaced with crisis support prompts.
type CrisisContact struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
}

// EducationalResource is a self-help article or module in the catalog.
type EducationalResource struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ResourceBookmark persists one student's bookmark of a catalog entry.
type ResourceBookmark struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string    `gorm:"type:varchar(50);uniqueIndex:idx_bookmarks_user_resource" json:"userId"`
	ResourceID string    `gorm:"type:varchar(100);uniqueIndex:idx_bookmarks_user_resource" json:"resourceId"`
	CreatedAt  time.Time `json:"createdAt"`
}
