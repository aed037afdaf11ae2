package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pkgtrack/internal/auth"
	"pkgtrack/internal/config"
	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/handler"
	"pkgtrack/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	packageHandler *handler.PackageHandler,
	historyHandler *handler.HistoryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/verify-otp", authHandler.VerifyOtp)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.POST("/addpackage", packageHandler.AddPackage)
	api.GET("/packages", packageHandler.ListPackages)
	api.GET("/package/ocrfail", packageHandler.ListOcrFailed)
	api.GET("/packages/:id", packageHandler.GetPackage)

	// Secured routes (require a valid session token)
	secured := api.Group("", sessionMiddleware(cfg.JWTSecret))

	secured.GET("/userinfo", userHandler.ListUsers, requireRole(model.RoleAdmin))
	secured.GET("/userinfo/me", userHandler.Me)
	secured.PUT("/userinfo/me", userHandler.UpdateMe)

	secured.GET("/history", historyHandler.ListHistory)
	secured.POST("/history", historyHandler.CreateHistory)
	secured.DELETE("/history/:id", historyHandler.DeleteHistory)

	secured.GET("/secure/packages/:id", packageHandler.GetPackageSecure)
	secured.GET("/packages/edited", packageHandler.ListEdited, requireRole(model.RoleSystemManager))
	secured.PUT("/packages/:id", packageHandler.UpdatePackage)
}

// sessionMiddleware parses and verifies the bearer token, leaving typed
// session claims on the context for CurrentUser.
func sessionMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.SessionClaims)
		},
	})
}

// requireRole allows only sessions holding exactly the given role. Roles do
// not stack: admin does not pass a system_manager check.
func requireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: fmt.Sprintf("requires %s role", role),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
