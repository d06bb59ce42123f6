package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/announcement"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/api"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/auth"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/booking"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/pkg/storage"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/redislock"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	RedisClient    *redis.Client
	BookingLockTTL time.Duration
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	UploadDir      string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	dayLocker := redislock.NewRedisDayLocker(cfg.RedisClient, cfg.BookingLockTTL)

	files, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	imageProcessor := storage.NewImageProcessor()

	// User Module (staff accounts)
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Customer Module
	customerRepo := customer.NewPgxRepository(cfg.DBPool)
	customerService := customer.NewService(customerRepo)

	// Technician Module
	technicianRepo := technician.NewPgxRepository(cfg.DBPool)
	technicianService := technician.NewService(technicianRepo)

	// Treatment Module
	treatmentRepo := treatment.NewPgxRepository(cfg.DBPool)
	treatmentService := treatment.NewService(treatmentRepo, files, imageProcessor)

	// Schedule Module
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		scheduleService,
		treatmentService,
		customerService,
		technicianService,
		dayLocker,
	)

	// Announcement Module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo)

	// API Router Config
	routerParams := api.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		UserService:       userService,
		CustomerService:   customerService,
		TechnicianService: technicianService,
		TreatmentService:  treatmentService,
		ScheduleService:   scheduleService,
		BookingService:    bookingService,
		AnnService:        annService,
		JWTManager:        jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
