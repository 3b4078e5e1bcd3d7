package models

// RegisterRequest creates a student account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	StudentID string `json:"studentId"`
	YearLevel int    `json:"yearLevel" binding:"omitempty,min=1,max=4"`
	Course    string `json:"course"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	StudentID        string `json:"studentId"`
	YearLevel        int    `json:"yearLevel" binding:"omitempty,min=1,max=4"`
	Course           string `json:"course"`
	EmergencyContact string `json:"emergencyContact"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// LogMoodRequest records one mood entry. Date is optional ISO 8601 and
// defaults to the current day.
type LogMoodRequest struct {
	Mood  string `json:"mood" binding:"required"`
	Notes string `json:"notes"`
	Date  string `json:"date"`
}

type UpdateMoodRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

type RequestSessionRequest struct {
	Category string `json:"category" binding:"required"`
	Urgency  string `json:"urgency" binding:"required"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Sender  string `json:"sender" binding:"required"`
}

type EndSessionRequest struct {
	Rating   *int   `json:"rating"`
	Feedback string `json:"feedback"`
}
