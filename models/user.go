package models

import (
	"time"
)

// User account types.
const (
	UserTypeStudent = "student"
	UserTypeAdmin   = "admin"
)

// User is a portal account. Lifetime counters are denormalized onto the
// row so student stats never need a cross-table scan.
type User struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Password  string     `gorm:"type:varchar(100)" json:"-"`
	Type      string     `gorm:"type:varchar(20);default:student" json:"type"`
	FirstName string     `gorm:"type:varchar(100)" json:"firstName"`
	LastName  string     `gorm:"type:varchar(100)" json:"lastName"`
	StudentID string     `gorm:"type:varchar(50)" json:"studentId"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	// Student profile
	YearLevel        int    `json:"yearLevel"`
	Course           string `gorm:"type:varchar(100)" json:"course"`
	EmergencyContact string `gorm:"type:varchar(100)" json:"emergencyContact"`

	// Lifetime counters
	MoodLogs            int `gorm:"default:0" json:"moodLogs"`
	CounselingSessions  int `gorm:"default:0" json:"counselingSessions"`
	ResourcesBookmarked int `gorm:"default:0" json:"resourcesBookmarked"`
}

func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// PublicProfile returns the fields safe to hand to a client.
func (u *User) PublicProfile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Type:      u.Type,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		StudentID: u.StudentID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
		YearLevel: u.YearLevel,
		Course:    u.Course,
	}
}
