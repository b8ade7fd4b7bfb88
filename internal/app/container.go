package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/renttogether/renttogether-backend/internal/api"
	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/booking"
	"github.com/renttogether/renttogether-backend/internal/car"
	"github.com/renttogether/renttogether-backend/internal/photo"
	"github.com/renttogether/renttogether-backend/internal/pkg/storage"
	"github.com/renttogether/renttogether-backend/internal/user"
)

// Photo normalization bounds.
const photoMaxEdge = 1920

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	UploadDir    string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router    *gin.Engine
	Scheduler *booking.Scheduler
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	imageProcessor := storage.NewImageProcessor(photoMaxEdge)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Car module
	carRepo := car.NewPgxRepository(cfg.DBPool)
	carService := car.NewService(carRepo)

	// Photo module
	photoRepo := photo.NewPgxRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, carService, store, imageProcessor)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, carService)
	scheduler := booking.NewScheduler(bookingService, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UploadDir:      cfg.UploadDir,
		UserService:    userService,
		CarService:     carService,
		PhotoService:   photoService,
		BookingService: bookingService,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
	})

	return &Container{
		Router:    router,
		Scheduler: scheduler,
	}, nil
}
