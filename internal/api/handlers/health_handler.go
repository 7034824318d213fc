// internal/api/handlers/health_handler.go
// 健康檢查 Handler

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessMessage 服務存活訊息
const LivenessMessage = "Gmail Sender API Service Working"

// HealthHandler 健康檢查 Handler
type HealthHandler struct{}

// NewHealthHandler 建立 Health Handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health 服務存活檢查，不相依任何外部服務
func (h *HealthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, LivenessMessage)
}

// Head HEAD / 只回狀態碼
func (h *HealthHandler) Head(c *gin.Context) {
	c.Status(http.StatusOK)
}
