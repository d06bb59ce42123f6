package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/announcement"
	annHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/announcement/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/auth"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/booking"
	bookingHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/booking/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer"
	customerHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/customer/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule"
	scheduleHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/schedule/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician"
	technicianHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/technician/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment"
	treatmentHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/treatment/http"
	"github.com/spotlightbtyjp-art/salon-booking-backend/internal/user"
	userHttp "github.com/spotlightbtyjp-art/salon-booking-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	// ProdOrigins is a comma separated list of allowed CORS origins in
	// production (the LIFF page and the admin panel).
	ProdOrigins string

	UserService       user.Service
	CustomerService   customer.Service
	TechnicianService technician.Service
	TreatmentService  treatment.Service
	ScheduleService   schedule.Service
	BookingService    booking.Service
	AnnService        announcement.Service
	JWTManager        *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // admin panel dev server
			"http://localhost:5173", // LIFF page dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated staff member is an admin.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	customerHandler := customerHttp.NewHandler(cfg.CustomerService)
	technicianHandler := technicianHttp.NewHandler(cfg.TechnicianService)
	treatmentHandler := treatmentHttp.NewHandler(cfg.TreatmentService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	annHandler := annHttp.NewHandler(cfg.AnnService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		customerHttp.RegisterRoutes(v1, customerHandler, authMiddleware)
		technicianHttp.RegisterRoutes(v1, technicianHandler, authMiddleware, adminMiddleware)
		treatmentHttp.RegisterRoutes(v1, treatmentHandler, authMiddleware, adminMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		annHttp.RegisterRoutes(v1, annHandler, authMiddleware, adminMiddleware)
	}

	return r
}
