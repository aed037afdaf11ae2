package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
	"pkgtrack/internal/service"
)

// PackageHandler handles package endpoints.
type PackageHandler struct {
	svc service.PackageService
}

// NewPackageHandler creates a handler layer.
func NewPackageHandler(svc service.PackageService) *PackageHandler {
	return &PackageHandler{svc: svc}
}

// AddPackageRequest carries the fields of a new package record.
type AddPackageRequest struct {
	Height       *float64 `json:"height"`
	Width        *float64 `json:"width"`
	SenderName   string   `json:"sender_name"`
	ReceiverName string   `json:"receiver_name"`
	SenderTel    string   `json:"sender_tel"`
	ReceiverTel  string   `json:"receiver_tel"`
	Address      string   `json:"address"`
	Status       string   `json:"status"`
	MaterialType string   `json:"material_type"`
	Province     string   `json:"province"`
	PostCode     string   `json:"post_code"`
	OcrResult    string   `json:"ocr_result"`
	PackageImg   string   `json:"package_img"`
}

// UpdatePackageRequest carries an operator edit; omitted fields stay unchanged.
type UpdatePackageRequest struct {
	Height       *float64 `json:"height"`
	Width        *float64 `json:"width"`
	SenderName   *string  `json:"sender_name"`
	ReceiverName *string  `json:"receiver_name"`
	SenderTel    *string  `json:"sender_tel"`
	ReceiverTel  *string  `json:"receiver_tel"`
	Address      *string  `json:"address"`
	Status       *string  `json:"status"`
	MaterialType *string  `json:"material_type"`
	Province     *string  `json:"province"`
	PostCode     *string  `json:"post_code"`
	OcrResult    *string  `json:"ocr_result"`
	PackageImg   *string  `json:"package_img"`
}

// AddPackage godoc
// @Summary Add a package record
// @Tags packages
// @Accept json
// @Produce json
// @Param request body AddPackageRequest true "Package fields"
// @Success 201 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /addpackage [post]
func (h *PackageHandler) AddPackage(c echo.Context) error {
	var req AddPackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pkg := &model.Package{
		Height:       req.Height,
		Width:        req.Width,
		SenderName:   req.SenderName,
		ReceiverName: req.ReceiverName,
		SenderTel:    req.SenderTel,
		ReceiverTel:  req.ReceiverTel,
		Address:      req.Address,
		Status:       req.Status,
		MaterialType: req.MaterialType,
		Province:     req.Province,
		PostCode:     req.PostCode,
		OcrResult:    req.OcrResult,
		PackageImg:   req.PackageImg,
	}

	created, err := h.svc.CreatePackage(c.Request().Context(), pkg)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "package added successfully",
		"data":    created,
	})
}

// ListPackages godoc
// @Summary List packages, paged
// @Tags packages
// @Produce json
// @Param limit query int false "Page size, max 200" default(50)
// @Param offset query int false "Offset" default(0)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} service.PackagePage
// @Failure 500 {object} errors.ErrorResponse
// @Router /packages [get]
func (h *PackageHandler) ListPackages(c echo.Context) error {
	limit, offset, order := pageParams(c)
	page, err := h.svc.ListPackages(c.Request().Context(), limit, offset, order)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// ListOcrFailed godoc
// @Summary List packages flagged by the OCR pipeline, paged
// @Tags packages
// @Produce json
// @Param limit query int false "Page size, max 200" default(50)
// @Param offset query int false "Offset" default(0)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} service.PackagePage
// @Failure 500 {object} errors.ErrorResponse
// @Router /package/ocrfail [get]
func (h *PackageHandler) ListOcrFailed(c echo.Context) error {
	limit, offset, order := pageParams(c)
	page, err := h.svc.ListOcrFailed(c.Request().Context(), limit, offset, order)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// GetPackage godoc
// @Summary Get a package by id
// @Tags packages
// @Produce json
// @Param id path int true "Package ID"
// @Success 200 {object} model.Package
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /packages/{id} [get]
func (h *PackageHandler) GetPackage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	pkg, err := h.svc.GetPackage(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, pkg)
}

// GetPackageSecure godoc
// @Summary Get a package by id and record the lookup in history
// @Tags packages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Success 200 {object} model.Package
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /secure/packages/{id} [get]
func (h *PackageHandler) GetPackageSecure(c echo.Context) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	pkg, err := h.svc.GetPackageTracked(c.Request().Context(), uint(id), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, pkg)
}

// ListEdited godoc
// @Summary List operator-modified packages (system_manager only)
// @Tags packages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Package
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /packages/edited [get]
func (h *PackageHandler) ListEdited(c echo.Context) error {
	pkgs, err := h.svc.ListEdited(c.Request().Context())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, pkgs)
}

// UpdatePackage godoc
// @Summary Edit a package record
// @Tags packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Package ID"
// @Param request body UpdatePackageRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /packages/{id} [put]
func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdatePackageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := &service.PackageUpdate{
		Height:       req.Height,
		Width:        req.Width,
		SenderName:   req.SenderName,
		ReceiverName: req.ReceiverName,
		SenderTel:    req.SenderTel,
		ReceiverTel:  req.ReceiverTel,
		Address:      req.Address,
		Status:       req.Status,
		MaterialType: req.MaterialType,
		Province:     req.Province,
		PostCode:     req.PostCode,
		OcrResult:    req.OcrResult,
		PackageImg:   req.PackageImg,
	}

	pkg, err := h.svc.UpdatePackage(c.Request().Context(), uint(id), update, claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "package updated",
		"data":    pkg,
	})
}

func pageParams(c echo.Context) (limit, offset int, order string) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	order = c.QueryParam("order")
	return limit, offset, order
}
