package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/giftpromo/internal/config"
	"github.com/polkiloo/giftpromo/internal/server/http/handlers"
	"github.com/polkiloo/giftpromo/internal/server/http/middleware"
	"github.com/polkiloo/giftpromo/internal/server/http/web"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PromotionFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Encoding", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	engine.Use(middleware.DecompressRequest(middleware.MaxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.SetHTMLTemplate(web.MustTemplates())

	participantHandler := handlers.NewParticipantHandler(facade, logger)
	qrHandler := handlers.NewQRHandler(facade, logger)
	clerkHandler := handlers.NewClerkHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)
	pageHandler := handlers.NewPageHandler(facade, cfg.PublicBaseURL, logger)

	api := engine.Group("/api")
	api.POST("/register", participantHandler.Register)
	api.GET("/participant/:code", participantHandler.Get)
	api.POST("/redeem", middleware.ClerkRequired(facade), participantHandler.Redeem)
	api.GET("/qr", qrHandler.Generate)
	api.POST("/shop/login", clerkHandler.Login)
	api.GET("/health", healthHandler.Check)

	engine.GET("/", pageHandler.Home)
	engine.GET("/chocolate-promotion", pageHandler.Promotion)
	engine.GET("/register", pageHandler.RegisterForm)
	engine.POST("/register", pageHandler.Register)
	engine.GET("/gift/:code", pageHandler.Gift)
	engine.GET(middleware.LoginPath, pageHandler.LoginForm)
	engine.POST(middleware.LoginPath, pageHandler.Login)

	clerk := engine.Group("")
	clerk.Use(middleware.ClerkPageRequired(facade))
	clerk.GET("/redeem/:code", pageHandler.RedeemForm)
	clerk.POST("/redeem/:code", pageHandler.Redeem)
	clerk.GET("/shop", pageHandler.Shop)
	clerk.POST("/shop", pageHandler.ShopRedeem)

	return engine
}
