// internal/api/routes/routes.go
// Gin 路由註冊

package routes

import (
	"github.com/gin-gonic/gin"

	"gmail-sender/internal/api/handlers"
	"gmail-sender/internal/api/middlewares"
	"gmail-sender/internal/config"
	"gmail-sender/internal/logger"
	"gmail-sender/internal/services"
)

// Dependencies 路由依賴
type Dependencies struct {
	Config     *config.Config
	Logger     *logger.Logger
	Transports services.TransportFactory
}

// NewRouter 建立 Gin Engine 並掛上共用中介軟體
func NewRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middlewares.RequestID())
	router.Use(middlewares.AccessLog(deps.Logger))
	router.Use(middlewares.Recovery(deps.Logger))
	router.Use(middlewares.CORS())

	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes 註冊所有路由
func RegisterRoutes(router *gin.Engine, deps *Dependencies) {
	// 初始化 Handlers
	healthHandler := handlers.NewHealthHandler()
	gmailHandler := handlers.NewGmailHandler(deps.Logger.WithComponent("gmail"), deps.Transports)

	// 存活檢查
	router.HEAD("/", healthHandler.Head)
	router.GET("/", healthHandler.Health)

	// 發送 Gmail
	router.POST("/sendGmail", gmailHandler.Send)
}
