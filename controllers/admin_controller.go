package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/store"
)

const (
	adminStatsCacheKey = "admin:dashboard_stats"
	adminStatsCacheTTL = 60 * time.Second
)

type AdminController struct {
	users    store.UserStore
	moods    store.MoodLogStore
	sessions store.SessionStore
}

func NewAdminController(users store.UserStore, moods store.MoodLogStore, sessions store.SessionStore) *AdminController {
	return &AdminController{users: users, moods: moods, sessions: sessions}
}

type dashboardStats struct {
	TotalUsers      int64                    `json:"totalUsers"`
	ActiveSessions  int64                    `json:"activeSessions"`
	PendingSessions int64                    `json:"pendingSessions"`
	TotalSessions   int64                    `json:"totalSessions"`
	TodayMoodLogs   int64                    `json:"todayMoodLogs"`
	StrugglingUsers int                      `json:"strugglingUsers"`
	RecentSessions  []models.SessionResponse `json:"recentSessions"`
	GeneratedAt     time.Time                `json:"generatedAt"`
}

// GetDashboardStats serves the admin overview. The numbers are cached in
// redis for a minute so dashboard polling does not hammer the database.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	if cached := ac.cachedStats(c.Request.Context()); cached != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"stats": cached, "cached": true},
		})
		return
	}

	stats, err := ac.buildStats()
	if err != nil {
		respondError(c, err)
		return
	}
	ac.cacheStats(c.Request.Context(), stats)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"stats": stats, "cached": false},
	})
}

func (ac *AdminController) buildStats() (*dashboardStats, error) {
	stats := &dashboardStats{GeneratedAt: time.Now()}

	var err error
	if stats.TotalUsers, err = ac.users.Count(store.UserFilter{Type: models.UserTypeStudent}); err != nil {
		return nil, err
	}
	if stats.ActiveSessions, err = ac.sessions.CountByStatus(models.SessionActive); err != nil {
		return nil, err
	}
	if stats.PendingSessions, err = ac.sessions.CountByStatus(models.SessionPending); err != nil {
		return nil, err
	}
	if stats.TotalSessions, err = ac.sessions.CountAll(); err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.TodayMoodLogs, err = ac.moods.CountSince(todayStart); err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	struggling, err := ac.moods.StrugglingSince(weekAgo)
	if err != nil {
		return nil, err
	}
	stats.StrugglingUsers = len(struggling)

	recent, err := ac.sessions.ListRecent(5)
	if err != nil {
		return nil, err
	}
	stats.RecentSessions = make([]models.SessionResponse, 0, len(recent))
	for _, s := range recent {
		stats.RecentSessions = append(stats.RecentSessions, s.ToResponse())
	}
	return stats, nil
}

func (ac *AdminController) cachedStats(ctx context.Context) *dashboardStats {
	if config.RedisClient == nil {
		return nil
	}
	raw, err := config.RedisClient.Get(ctx, adminStatsCacheKey).Result()
	if err != nil {
		return nil
	}
	var stats dashboardStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (ac *AdminController) cacheStats(ctx context.Context, stats *dashboardStats) {
	if config.RedisClient == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := config.RedisClient.Set(ctx, adminStatsCacheKey, raw, adminStatsCacheTTL).Err(); err != nil {
		config.Logger.Errorw("stats cache write failed", "error", err)
	}
}

// GetUsers pages through accounts for the admin user table.
func (ac *AdminController) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := store.UserFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	users, total, err := ac.users.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].PublicProfile())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":      profiles,
			"pagination": models.NewPagination(page, limit, total),
		},
	})
}

// GetSessions pages through counseling sessions across all students.
func (ac *AdminController) GetSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := store.SessionFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
	sessions, total, err := ac.sessions.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, s.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sessions":   responses,
			"pagination": models.NewPagination(page, limit, total),
		},
	})
}

// GetMoodAnalytics serves the campus-wide mood picture: distribution over
// the window, the daily average series, and the students logging repeated
// low moods.
func (ac *AdminController) GetMoodAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	distribution, err := ac.moods.DistributionSince(since)
	if err != nil {
		respondError(c, err)
		return
	}
	daily, err := ac.moods.DailyAveragesSince(since)
	if err != nil {
		respondError(c, err)
		return
	}
	struggling, err := ac.moods.StrugglingSince(since)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(struggling) > 10 {
		struggling = struggling[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"analytics": gin.H{
				"moodDistribution": distribution,
				"dailyTrends":      daily,
				"strugglingUsers":  struggling,
				"windowDays":       days,
			},
		},
	})
}

// DeactivateUser disables an account. Admin accounts cannot be deactivated,
// and admins cannot deactivate themselves.
func (ac *AdminController) DeactivateUser(c *gin.Context) {
	ac.setUserActive(c, false, "User account deactivated")
}

// ReactivateUser re-enables a previously deactivated account.
func (ac *AdminController) ReactivateUser(c *gin.Context) {
	ac.setUserActive(c, true, "User account reactivated")
}

func (ac *AdminController) setUserActive(c *gin.Context, active bool, message string) {
	target := c.Param("id")
	if target == c.GetString("uid") {
		badRequest(c, "You cannot change your own account status")
		return
	}

	user, err := ac.users.GetByID(target)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		respondError(c, err)
		return
	}
	if !active && user.IsAdmin() {
		badRequest(c, "Admin accounts cannot be deactivated")
		return
	}

	if err := ac.users.SetActive(target, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		respondError(c, err)
		return
	}

	config.Logger.Infow("account status changed", "targetID", target, "isActive", active, "adminID", c.GetString("uid"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}
