package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zjkm666/ust-legazpi-mhs/config"
	"github.com/zjkm666/ust-legazpi-mhs/services"
)

// respondError maps a service error onto the HTTP boundary. Anything
// that is not a structured service error is logged and hidden behind a
// generic 500.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Kind {
		case services.KindValidation:
			status = http.StatusBadRequest
		case services.KindConflict, services.KindState:
			status = http.StatusConflict
		case services.KindNotFound:
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "message": svcErr.Message})
		return
	}

	config.Logger.Errorw("internal error",
		"error", err,
		"path", c.FullPath(),
		"requestID", c.GetString("requestID"),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": "Internal server error",
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
