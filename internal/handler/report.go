package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/config"
	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/report"
	"github.com/parketr3s/parke-tres/internal/repository"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

// ReportHandler serves the back-office sales report: a JSON summary and
// a CSV export. The date range is interpreted in the park's time zone.
type ReportHandler struct {
	Cfg       config.Config
	Purchases *repository.PurchaseRepo
	Packages  *repository.TimePackageRepo
	Visitors  *repository.VisitorRepo
	Engine    *tracking.Engine
}

func NewReportHandler(cfg config.Config, purchases *repository.PurchaseRepo, packages *repository.TimePackageRepo, visitors *repository.VisitorRepo, engine *tracking.Engine) *ReportHandler {
	return &ReportHandler{Cfg: cfg, Purchases: purchases, Packages: packages, Visitors: visitors, Engine: engine}
}

// dateRange parses ?from=YYYY-MM-DD&to=YYYY-MM-DD in the park time
// zone. Both default to today; to is exclusive end-of-day.
func (h *ReportHandler) dateRange(c echo.Context) (time.Time, time.Time, error) {
	loc := h.Cfg.Location()
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	from, to := today, today
	if s := c.QueryParam("from"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to.AddDate(0, 0, 1), nil
}

// Summary returns sale count, revenue and a live visitor breakdown for
// the requested range.
func (h *ReportHandler) Summary(c echo.Context) error {
	from, to, err := h.dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	count, revenue, err := h.Purchases.Totals(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load totals failed"})
	}
	byStatus, err := h.Visitors.CountByStatus(ctx, from)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load visitor counts failed"})
	}
	active := 0
	paused := 0
	for _, v := range h.Engine.Board() {
		if v.Status == model.StatusActive {
			active++
		} else {
			paused++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":            from.Format("2006-01-02"),
		"to":              to.AddDate(0, 0, -1).Format("2006-01-02"),
		"sales_count":     count,
		"revenue_cents":   revenue,
		"visitors_status": byStatus,
		"active_now":      active,
		"paused_now":      paused,
	})
}

// ExportCSV streams the sales report as a CSV download.
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	from, to, err := h.dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	rows, err := h.Purchases.ListSales(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load sales failed"})
	}
	pkgs, err := h.Packages.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load packages failed"})
	}
	names := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		names[p.ID] = p.Name
	}
	data, err := report.SalesCSV(rows, names, h.Cfg.Location())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render csv failed"})
	}
	filename := "ventas_" + from.Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
