package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
	"github.com/zjkm666/ust-legazpi-mhs/utils"
)

const bcryptCost = 12

type AuthController struct {
	users store.UserStore
	conf  config.Config
}

func NewAuthController(users store.UserStore, conf config.Config) *AuthController {
	return &AuthController{users: users, conf: conf}
}

func (ac *AuthController) allowedDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, allowed := range ac.conf.EmailDomainList() {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}
	return false
}

// Register creates a student account.
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !ac.allowedDomain(email) {
		badRequest(c, "Only institutional email addresses are allowed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		ID:        utils.GenerateID(),
		Email:     email,
		Password:  string(hash),
		Type:      models.UserTypeStudent,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StudentID: req.StudentID,
		YearLevel: req.YearLevel,
		Course:    req.Course,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := ac.users.Create(user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "An account with this email already exists",
			})
			return
		}
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	config.Logger.Infow("student registered", "userID", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"data": gin.H{
			"token": token,
			"user":  user.PublicProfile(),
		},
	})
}

// Login authenticates a student or admin account.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	invalid := func() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
	}

	user, err := ac.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			invalid()
			return
		}
		respondError(c, err)
		return
	}
	if !user.IsActive {
		invalid()
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		invalid()
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := ac.users.Update(user); err != nil {
		config.Logger.Errorw("last login update failed", "error", err, "userID", user.ID)
	}

	token, err := utils.GenerateToken(user.ID, user.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"token": token,
			"user":  user.PublicProfile(),
		},
	})
}

// Logout acknowledges the logout; tokens are stateless and simply expire.
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Verify confirms the caller's token still maps to an active account.
func (ac *AuthController) Verify(c *gin.Context) {
	uid := c.GetString("uid")
	user, err := ac.users.GetByID(uid)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid token.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": user.PublicProfile()},
	})
}
