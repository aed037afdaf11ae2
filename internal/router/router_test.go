package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"pkgtrack/internal/auth"
	"pkgtrack/internal/handler"
	"pkgtrack/internal/model"
)

// A token issued by JWTService must survive the round trip through the
// bearer middleware and come back out of CurrentUser.
func TestSessionMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		claims, ok := handler.CurrentUser(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
	}, sessionMiddleware("test-secret"))

	t.Run("valid bearer token reaches the handler with claims", func(t *testing.T) {
		token, err := jwtService.GenerateSessionToken(7, model.RoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":7`)
		assert.Contains(t, rec.Body.String(), `"role":"admin"`)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		token, err := auth.NewJWTService("other-secret").GenerateSessionToken(7, model.RoleAdmin)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		claims       *auth.SessionClaims
		required     model.Role
		expectedCode int
	}{
		{
			name:         "exact role passes",
			claims:       &auth.SessionClaims{UserID: 1, Role: model.RoleAdmin},
			required:     model.RoleAdmin,
			expectedCode: http.StatusOK,
		},
		{
			name:         "plain user is forbidden",
			claims:       &auth.SessionClaims{UserID: 1, Role: model.RoleUser},
			required:     model.RoleAdmin,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "no role hierarchy between admin roles",
			claims:       &auth.SessionClaims{UserID: 1, Role: model.RoleSystemManager},
			required:     model.RoleAdmin,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "missing session is unauthorized",
			claims:       nil,
			required:     model.RoleAdmin,
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if tt.claims != nil {
				c.Set("user", &jwt.Token{Claims: tt.claims, Valid: true})
			}

			next := func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			}

			err := requireRole(tt.required)(next)(c)

			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				httpErr, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tt.expectedCode, httpErr.Code)
			}
		})
	}
}
