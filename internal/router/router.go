package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"giveflow/config"
	"giveflow/internal/handler"
	"giveflow/internal/middleware"
	"giveflow/internal/repository"
	"giveflow/internal/service"
	"giveflow/internal/ws"
	"giveflow/pkg/payment"
)

func Setup(cfg *config.Config, db *gorm.DB, processor payment.ProcessorClient) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(60, 60*time.Second)))

	// Repositories
	chargeRepo := repository.NewChargeRepository(db)
	intentRepo := repository.NewIntentRepository(db)

	chargeHub := ws.NewHub()

	// Services
	chargeSvc := service.NewChargeService(chargeRepo, processor, chargeHub)
	intentSvc := service.NewIntentService(intentRepo, &cfg.Intent)

	// Handlers
	payHandler := handler.NewPayHandler(chargeSvc, intentSvc)
	intentHandler := handler.NewIntentHandler(intentSvc)
	chargeHandler := handler.NewChargeHandler(chargeSvc)
	configHandler := handler.NewConfigHandler(cfg)

	r.GET("/config.js", configHandler.Script)

	// Card-testing abuse concentrates on /api/pay; it gets its own tighter
	// window on top of the global limiter.
	payLimiter := middleware.NewInMemoryRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		api.POST("/pay", middleware.RateLimit(payLimiter), payHandler.Pay)
		api.POST("/create-payment-intent", intentHandler.Create)
		api.GET("/charges/:reference", chargeHandler.Get)
		api.GET("/funds", configHandler.Funds)
		api.GET("/checkout/ws", handler.UpgradeCheckoutWS(chargeHub))
	}

	return r
}
