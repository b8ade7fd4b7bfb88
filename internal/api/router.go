package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/booking"
	bookingHttp "github.com/renttogether/renttogether-backend/internal/booking/http"
	"github.com/renttogether/renttogether-backend/internal/car"
	carHttp "github.com/renttogether/renttogether-backend/internal/car/http"
	"github.com/renttogether/renttogether-backend/internal/photo"
	photoHttp "github.com/renttogether/renttogether-backend/internal/photo/http"
	"github.com/renttogether/renttogether-backend/internal/user"
	userHttp "github.com/renttogether/renttogether-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the API surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	UploadDir    string

	UserService    user.Service
	CarService     car.Service
	PhotoService   photo.Service
	BookingService booking.Service
	JWTManager     *auth.JWTManager
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (logging, recovery, CORS, auth) and registers
// routes for every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000", // React dev server
		"http://localhost:8081", // Swagger
	}
	if cfg.ProdOrigins != "" {
		for _, origin := range strings.Split(cfg.ProdOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
			}
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Uploaded car photos are served straight from disk.
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: validates the request carries a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP handlers for each module (injecting service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	carHandler := carHttp.NewHandler(cfg.CarService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		carHttp.RegisterRoutes(v1, carHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}
