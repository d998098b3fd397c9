package main

import (
	"log"
	"net/http"

	_ "skycities/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"skycities/internal/auth"
	"skycities/internal/cache"
	"skycities/internal/config"
	"skycities/internal/db"
	"skycities/internal/handler"
	"skycities/internal/model"
	"skycities/internal/repository"
	"skycities/internal/router"
	"skycities/internal/service"
)

// @title Sky Cities API
// @version 1.0
// @description Weather dashboard backend: saved cities per user with JWT authentication, plus geocoding, forecast and insight proxies.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, backend, err := db.Open(cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	log.Printf("using %s store backend", backend)

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.City{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	cityRepo := repository.NewCityRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	cityService := service.NewCityService(cityRepo)
	weatherService := service.NewWeatherService(cacheClient, service.WeatherConfig{
		InsightAPIKey: cfg.GeminiAPIKey,
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	cityHandler := handler.NewCityHandler(cityService)
	weatherHandler := handler.NewWeatherHandler(weatherService)
	healthHandler := handler.NewHealthHandler(gormDB, cacheClient, backend)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		cityHandler,
		weatherHandler,
		healthHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
