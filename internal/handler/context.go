package handler

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"pkgtrack/internal/auth"
)

// CurrentUser returns the session claims the JWT middleware attached to the
// request, or false when the request carries no valid session.
func CurrentUser(c echo.Context) (*auth.SessionClaims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.SessionClaims)
	if !ok || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}
