package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chaletbook/internal/config"
	"chaletbook/internal/database"
	"chaletbook/internal/middleware"
	"chaletbook/internal/modules/admin"
	"chaletbook/internal/modules/auth"
	"chaletbook/internal/modules/availability"
	"chaletbook/internal/modules/catalog"
	"chaletbook/internal/modules/experience"
	"chaletbook/internal/modules/notification"
	"chaletbook/internal/modules/testimonial"
	jwtsvc "chaletbook/internal/pkg/jwt"
	"chaletbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	amenityRepo := repository.NewAmenityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	experienceRepo := repository.NewExperienceRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	defer hub.Close()
	notifier := notification.NewService(hub)
	notificationHandler := notification.NewHandler(hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(propertyRepo, amenityRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(bookingRepo, propertyRepo, notifier)
	availabilityHandler := availability.NewHandler(availabilityService, propertyRepo)

	experienceService := experience.NewService(experienceRepo)
	experienceHandler := experience.NewHandler(experienceService)

	testimonialService := testimonial.NewService(testimonialRepo)
	testimonialHandler := testimonial.NewHandler(testimonialService)

	adminService := admin.NewService(bookingRepo, propertyRepo, hub)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterPublicRoutes(v1)
		experienceHandler.RegisterPublicRoutes(v1)
		testimonialHandler.RegisterPublicRoutes(v1)

		adminGroup := v1.Group("/admin")
		// websocket auth travels in the query string, so the feed
		// endpoint sits outside the bearer-token middleware
		notificationHandler.RegisterRoutes(adminGroup)

		protected := adminGroup.Group("/")
		protected.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterAdminRoutes(protected)
			availabilityHandler.RegisterAdminRoutes(protected)
			experienceHandler.RegisterAdminRoutes(protected)
			testimonialHandler.RegisterAdminRoutes(protected)
			adminHandler.RegisterRoutes(protected)
		}
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
