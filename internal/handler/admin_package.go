package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/repository"
)

// PackageHandler serves the time package catalog. Listing active
// packages is public (the sale screen loads it before login); the rest
// is admin-only.
type PackageHandler struct {
	Packages *repository.TimePackageRepo
}

func NewPackageHandler(packages *repository.TimePackageRepo) *PackageHandler {
	return &PackageHandler{Packages: packages}
}

type packageReq struct {
	Name        string `json:"name"`
	Minutes     int    `json:"minutes"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
	Popular     bool   `json:"popular"`
	Active      *bool  `json:"active"`
}

func (r packageReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if r.Minutes <= 0 {
		return "minutes must be positive"
	}
	if r.PriceCents < 0 {
		return "price_cents must not be negative"
	}
	return ""
}

// ListActive returns the packages shown on the sale screen.
func (h *PackageHandler) ListActive(c echo.Context) error {
	pkgs, err := h.Packages.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list packages failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"packages": pkgs})
}

// ListAll includes inactive packages, for the admin catalog view.
func (h *PackageHandler) ListAll(c echo.Context) error {
	pkgs, err := h.Packages.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list packages failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"packages": pkgs})
}

func (h *PackageHandler) Create(c echo.Context) error {
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	pkg := model.TimePackage{
		ID:          strings.ReplaceAll(uuid.New().String(), "-", ""),
		Name:        strings.TrimSpace(req.Name),
		Minutes:     req.Minutes,
		PriceCents:  req.PriceCents,
		Description: req.Description,
		Popular:     req.Popular,
		Active:      true,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := h.Packages.Create(c.Request().Context(), pkg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create package failed"})
	}
	return c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) Update(c echo.Context) error {
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	pkg, err := h.Packages.GetByID(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
	}
	pkg.Name = strings.TrimSpace(req.Name)
	pkg.Minutes = req.Minutes
	pkg.PriceCents = req.PriceCents
	pkg.Description = req.Description
	pkg.Popular = req.Popular
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := h.Packages.Update(ctx, pkg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update package failed"})
	}
	return c.JSON(http.StatusOK, pkg)
}

// Delete removes a package that no visitor has purchased yet. Packages
// already referenced by sales must be deactivated instead.
func (h *PackageHandler) Delete(c echo.Context) error {
	err := h.Packages.Delete(c.Request().Context(), c.Param("id"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "package has associated visitors; deactivate it instead"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete package failed"})
	}
}
