package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/qr"
	"github.com/parketr3s/parke-tres/internal/repository"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

// SaleHandler creates visitors and purchase records at the register.
type SaleHandler struct {
	Engine    *tracking.Engine
	Visitors  *repository.VisitorRepo
	Purchases *repository.PurchaseRepo
	Packages  *repository.TimePackageRepo
}

func NewSaleHandler(engine *tracking.Engine, v *repository.VisitorRepo, p *repository.PurchaseRepo, tp *repository.TimePackageRepo) *SaleHandler {
	return &SaleHandler{Engine: engine, Visitors: v, Purchases: p, Packages: tp}
}

type saleReq struct {
	Child         model.Child    `json:"child"`
	Guardian      model.Guardian `json:"guardian"`
	PackageID     string         `json:"package_id"`
	PaymentMethod string         `json:"payment_method"` // cash | card | transfer
}

type saleResp struct {
	Visitor    model.Visitor  `json:"visitor"`
	Purchase   model.Purchase `json:"purchase"`
	QRImageURL string         `json:"qr_image_url"`
}

// Create sells a ticket: it mints the visitor in REGISTERED state, writes
// the visitor and purchase rows, enters the visitor into the tracking
// store and returns the QR payload for printing.
func (h *SaleHandler) Create(c echo.Context) error {
	var req saleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Child.Name = strings.TrimSpace(req.Child.Name)
	req.Guardian.Name = strings.TrimSpace(req.Guardian.Name)
	req.Guardian.Phone = strings.TrimSpace(req.Guardian.Phone)
	if req.Child.Name == "" || req.Guardian.Name == "" || req.Guardian.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "child name, guardian name and phone required"})
	}
	switch req.PaymentMethod {
	case "cash", "card", "transfer":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be cash, card or transfer"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pkg, err := h.Packages.GetByID(ctx, req.PackageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown package"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load package failed"})
	}
	if !pkg.Active {
		return c.JSON(http.StatusConflict, echo.Map{"error": "package is not on sale"})
	}

	now := time.Now().UTC()
	v := model.Visitor{
		ID:               newID(),
		Child:            req.Child,
		Guardian:         req.Guardian,
		PackageID:        pkg.ID,
		TotalMinutes:     pkg.Minutes,
		RemainingMinutes: pkg.Minutes,
		InitialMinutes:   pkg.Minutes,
		RegistrationDate: now,
		Status:           model.StatusRegistered,
		PaymentMethod:    req.PaymentMethod,
		SoldBy:           getUsername(c),
	}
	v.QRData = qr.Generate(v, now)

	if err := h.Visitors.Create(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save visitor failed"})
	}

	p := model.Purchase{
		ID:            newID(),
		VisitorID:     v.ID,
		AmountCents:   pkg.PriceCents,
		PaymentMethod: req.PaymentMethod,
		SoldBy:        v.SoldBy,
		Status:        model.PurchaseCompleted,
		CreatedAt:     now,
	}
	if err := h.Purchases.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save purchase failed"})
	}

	h.Engine.Register(v)

	return c.JSON(http.StatusCreated, saleResp{
		Visitor:    v,
		Purchase:   p,
		QRImageURL: qr.ImageURL(v.QRData),
	})
}

// Get returns one visitor with its QR rendering URL.
func (h *SaleHandler) Get(c echo.Context) error {
	v, err := h.Engine.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "visitor not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"visitor": v, "qr_image_url": qr.ImageURL(v.QRData)})
}

// newID mints a dash-free identifier so it embeds in the QR payload.
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
