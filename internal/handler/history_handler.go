package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/service"
)

// HistoryHandler handles search-history endpoints.
type HistoryHandler struct {
	svc service.HistoryService
}

// NewHistoryHandler creates a handler layer.
func NewHistoryHandler(svc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// CreateHistoryRequest records that the caller looked up a package.
type CreateHistoryRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
}

// ListHistory godoc
// @Summary List the caller's package search history
// @Tags history
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.HistoryEntry
// @Failure 401 {object} errors.ErrorResponse
// @Router /history [get]
func (h *HistoryHandler) ListHistory(c echo.Context) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	entries, err := h.svc.ListEntries(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, entries)
}

// CreateHistory godoc
// @Summary Record a package lookup in the caller's history
// @Tags history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateHistoryRequest true "Package reference"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /history [post]
func (h *HistoryHandler) CreateHistory(c echo.Context) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.svc.AddEntry(c.Request().Context(), claims.UserID, req.PackageID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "history entry added",
		"history_id": entry.HistoryID,
	})
}

// DeleteHistory godoc
// @Summary Delete one of the caller's history entries
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param id path int true "History ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /history/{id} [delete]
func (h *HistoryHandler) DeleteHistory(c echo.Context) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid history id")
	}

	if err := h.svc.DeleteEntry(c.Request().Context(), uint(id), claims.UserID); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
