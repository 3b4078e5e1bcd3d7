package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

type UserController struct {
	users store.UserStore
}

func NewUserController(users store.UserStore) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) current(c *gin.Context) (*models.User, bool) {
	user, err := uc.users.GetByID(c.GetString("uid"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return user, true
}

func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := uc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": user.PublicProfile()},
	})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	user, ok := uc.current(c)
	if !ok {
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.StudentID != "" {
		user.StudentID = req.StudentID
	}
	if req.YearLevel != 0 {
		user.YearLevel = req.YearLevel
	}
	if req.Course != "" {
		user.Course = req.Course
	}
	if req.EmergencyContact != "" {
		user.EmergencyContact = req.EmergencyContact
	}

	if err := uc.users.Update(user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    gin.H{"user": user.PublicProfile()},
	})
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}
	if len(req.NewPassword) < 6 {
		badRequest(c, "Password must be at least 6 characters long")
		return
	}

	user, ok := uc.current(c)
	if !ok {
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Current password is incorrect",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Password = string(hash)
	if err := uc.users.Update(user); err != nil {
		respondError(c, err)
		return
	}

	config.Logger.Infow("password changed", "userID", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

// GetStats returns the student's lifetime activity counters.
func (uc *UserController) GetStats(c *gin.Context) {
	user, ok := uc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats": gin.H{
				"moodLogs":            user.MoodLogs,
				"counselingSessions":  user.CounselingSessions,
				"resourcesBookmarked": user.ResourcesBookmarked,
			},
		},
	})
}

// DeactivateAccount soft-deletes the caller's account.
func (uc *UserController) DeactivateAccount(c *gin.Context) {
	uid := c.GetString("uid")
	if err := uc.users.SetActive(uid, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	config.Logger.Infow("account deactivated", "userID", uid)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deactivated successfully",
	})
}
