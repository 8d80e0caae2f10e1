package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"llm-workbench/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	storageStatus := dependencyStatus{OK: true}
	if err := h.app.Blobs.Ping(); err != nil {
		storageStatus = dependencyStatus{Message: err.Error()}
	}

	statusCode := http.StatusOK
	if !storageStatus.OK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":         httpStatusLabel(storageStatus.OK),
		"storage":        storageStatus,
		"uptime_seconds": int(time.Since(h.app.StartedAt).Seconds()),
	})
}

func httpStatusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}
