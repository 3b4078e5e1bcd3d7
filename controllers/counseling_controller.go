package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/models"
	"github.com/zjkm666/ust-legazpi-mhs/services"
)

type CounselingController struct {
	counseling *services.CounselingService
	catalog    *services.ResourceCatalog
}

func NewCounselingController(counseling *services.CounselingService, catalog *services.ResourceCatalog) *CounselingController {
	return &CounselingController{counseling: counseling, catalog: catalog}
}

func (cc *CounselingController) RequestSession(c *gin.Context) {
	var req models.RequestSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	session, err := cc.counseling.Request(c.GetString("uid"), req.Category, req.Urgency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Counseling session requested. You will be matched with a counselor shortly.",
		"data":    gin.H{"session": session.ToResponse()},
	})
}

func (cc *CounselingController) GetSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	status := c.Query("status")

	sessions, total, err := cc.counseling.ListSessions(c.GetString("uid"), status, page, limit)
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

func (cc *CounselingController) GetCurrentSession(c *gin.Context) {
	session, err := cc.counseling.CurrentSession(c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"session": nil},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"session": session.ToResponse()},
	})
}

func (cc *CounselingController) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	result, err := cc.counseling.SendMessage(c.Param("id"), c.GetString("uid"), req.Sender, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{
		"message":        result.Message,
		"crisisDetected": result.CrisisDetected,
	}
	if result.CrisisDetected {
		data["crisisResources"] = cc.catalog.CrisisContacts()
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent",
		"data":    data,
	})
}

func (cc *CounselingController) EndSession(c *gin.Context) {
	var req models.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Validation failed: "+err.Error())
		return
	}

	session, err := cc.counseling.EndSession(c.Param("id"), c.GetString("uid"), req.Rating, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session ended successfully",
		"data":    gin.H{"session": session.ToResponse()},
	})
}

func (cc *CounselingController) CancelSession(c *gin.Context) {
	session, err := cc.counseling.CancelSession(c.Param("id"), c.GetString("uid"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session cancelled",
		"data":    gin.H{"session": session.ToResponse()},
	})
}

// GetCategories lists the counseling categories a session can be opened under.
func (cc *CounselingController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"categories": models.SessionCategories},
	})
}
