package main

import (
	"net/http"
	"os"

	_ "pkgtrack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"pkgtrack/internal/auth"
	"pkgtrack/internal/cache"
	"pkgtrack/internal/config"
	"pkgtrack/internal/db"
	"pkgtrack/internal/handler"
	"pkgtrack/internal/mail"
	"pkgtrack/internal/model"
	"pkgtrack/internal/repository"
	"pkgtrack/internal/router"
	"pkgtrack/internal/service"
)

// @title Package Tracking API
// @version 1.0
// @description Package tracking API with JWT authentication, OTP password reset, and search history.
// @host localhost:5000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logrus.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		logrus.Warn("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.History{},
			&model.PasswordResetOtp{},
			&model.Package{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logrus.Warnf("failed to drop table (may not exist): %v", err)
			}
		}
		logrus.Info("tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PasswordResetOtp{},
		&model.Package{},
		&model.History{},
	); err != nil {
		logrus.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	otpRepo := repository.NewOtpRepository(gormDB)
	packageRepo := repository.NewPackageRepository(gormDB)
	historyRepo := repository.NewHistoryRepository(gormDB)

	// Initialize auth and mail components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	resetTokenStore := auth.NewResetTokenStore(cacheClient)
	mailer := mail.NewMailer(cfg)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	resetService := service.NewPasswordResetService(userRepo, otpRepo, jwtService, resetTokenStore, mailer)
	userService := service.NewUserService(userRepo)
	packageService := service.NewPackageService(packageRepo, historyRepo, cacheClient)
	historyService := service.NewHistoryService(historyRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, resetService, cfg)
	userHandler := handler.NewUserHandler(userService)
	packageHandler := handler.NewPackageHandler(packageService)
	historyHandler := handler.NewHistoryHandler(historyService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		packageHandler,
		historyHandler,
	)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
	}
	logrus.Infof("swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("server start: %v", err)
	}
}
