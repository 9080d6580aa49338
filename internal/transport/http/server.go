package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "agriguard/internal/app"
	"agriguard/internal/bootstrap"
	"agriguard/internal/cache"
	"agriguard/internal/platform/rabbitmq"
	"agriguard/internal/repository"
	"agriguard/internal/transport/http/handler"
	"agriguard/internal/transport/http/middleware"
	"agriguard/internal/vision"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	scanRepo := repository.NewScanRepository(app.MySQL)
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	scanService := appsvc.NewScanService(
		scanRepo,
		rabbitmq.NewScanPublisher(app.MQConn, app.Config.RabbitMQ.ScanPersistQueue),
		cache.NewHistoryCache(
			app.Redis,
			time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
		),
		vision.NewClassifier(
			app.Config.Vision.ModelPath,
			app.Config.Vision.LabelsPath,
			app.Config.Vision.ONNXSharedLibPath,
		),
	)
	authHandler := handler.NewAuthHandler(authService)
	scanHandler := handler.NewScanHandler(scanService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/token", authHandler.Token)

	router.GET("/users/me", authJWT, authHandler.Me)
	router.POST("/analyze", authJWT, scanHandler.Analyze)
	router.GET("/scans", authJWT, scanHandler.History)

	return router
}
