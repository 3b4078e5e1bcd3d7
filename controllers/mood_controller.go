package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/services"
)

type MoodController struct {
	moods *services.MoodService
}

func NewMoodController(moods *services.MoodService) *MoodController {
	return &MoodController{moods: moods}
}

func (mc *MoodController) LogMood(c *gin.Context) {
	var req models.LogMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			badRequest(c, "Invalid date format")
			return
		}
		date = &parsed
	}

	log, err := mc.moods.LogMood(c.GetString("uid"), req.Mood, req.Notes, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Mood logged successfully",
		"data":    gin.H{"moodLog": log.ToResponse()},
	})
}

func (mc *MoodController) GetHistory(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	logs, total, err := mc.moods.History(c.GetString("uid"), days, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.MoodLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, log.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"moodLogs":   responses,
			"pagination": models.NewPagination(page, limit, total),
		},
	})
}

func (mc *MoodController) GetStats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := mc.moods.Stats(c.GetString("uid"), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"stats": stats},
	})
}

func (mc *MoodController) UpdateMood(c *gin.Context) {
	var req models.UpdateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	log, err := mc.moods.UpdateNotes(c.Param("id"), c.GetString("uid"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Mood log updated successfully",
		"data":    gin.H{"moodLog": log.ToResponse()},
	})
}

func (mc *MoodController) DeleteMood(c *gin.Context) {
	if err := mc.moods.Delete(c.Param("id"), c.GetString("uid")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Mood log deleted successfully",
	})
}
