package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/qr"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

func newCheckInTest() (*CheckInHandler, *tracking.Engine) {
	engine := tracking.NewEngine(tracking.NewStore(), nil)
	return NewCheckInHandler(engine), engine
}

func registeredVisitor(id string) model.Visitor {
	v := model.Visitor{
		ID:               id,
		Child:            model.Child{Name: "Sofía", Age: 6},
		Guardian:         model.Guardian{Name: "María", Phone: "+573001112233"},
		TotalMinutes:     60,
		RemainingMinutes: 60,
		InitialMinutes:   60,
		Status:           model.StatusRegistered,
		PaymentMethod:    "cash",
	}
	v.QRData = qr.Generate(v, time.Now())
	return v
}

func doScan(h *CheckInHandler, body string) (*httptest.ResponseRecorder, checkInResp) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/check-in", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Scan(e.NewContext(req, rec)); err != nil {
		panic(err)
	}
	var resp checkInResp
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestScanActivatesRegisteredVisitor(t *testing.T) {
	h, engine := newCheckInTest()
	v := registeredVisitor("abc123")
	engine.Register(v)

	rec, resp := doScan(h, `{"qr_data":"`+v.QRData+`"}`)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("code=%d resp=%+v", rec.Code, resp)
	}
	got, _ := engine.Get("abc123")
	if got.Status != model.StatusActive {
		t.Errorf("status = %s, want ACTIVE", got.Status)
	}
	if got.SessionStarted == nil {
		t.Error("SessionStarted not stamped")
	}
}

func TestScanRejectsMalformedQR(t *testing.T) {
	h, _ := newCheckInTest()
	rec, resp := doScan(h, `{"qr_data":"garbage"}`)
	if rec.Code != http.StatusOK || resp.Success {
		t.Fatalf("code=%d resp=%+v", rec.Code, resp)
	}
	if !strings.Contains(resp.Message, "inválido") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestScanRejectsYesterdaysTicket(t *testing.T) {
	h, engine := newCheckInTest()
	v := registeredVisitor("abc123")
	v.QRData = qr.Generate(v, time.Now().AddDate(0, 0, -1))
	engine.Register(v)

	_, resp := doScan(h, `{"qr_data":"`+v.QRData+`"}`)
	if resp.Success {
		t.Fatal("stale ticket accepted")
	}
	if !strings.Contains(resp.Message, "fecha anterior") {
		t.Errorf("message = %q", resp.Message)
	}
	got, _ := engine.Get("abc123")
	if got.Status != model.StatusRegistered {
		t.Errorf("stale scan mutated status to %s", got.Status)
	}
}

func TestScanUnknownVisitor(t *testing.T) {
	h, _ := newCheckInTest()
	orphan := registeredVisitor("nope99")
	_, resp := doScan(h, `{"qr_data":"`+orphan.QRData+`"}`)
	if resp.Success {
		t.Fatal("unknown visitor accepted")
	}
	if !strings.Contains(resp.Message, "No se encontró") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestScanFinishedTicket(t *testing.T) {
	h, engine := newCheckInTest()
	v := registeredVisitor("abc123")
	engine.Register(v)
	if err := engine.Start("abc123"); err != nil {
		t.Fatal(err)
	}
	if err := engine.End("abc123"); err != nil {
		t.Fatal(err)
	}

	_, resp := doScan(h, `{"qr_data":"`+v.QRData+`"}`)
	if resp.Success {
		t.Fatal("finished ticket accepted")
	}
	if !strings.Contains(resp.Message, "ya ha sido utilizada") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestScanAlreadyActiveIsIdempotent(t *testing.T) {
	h, engine := newCheckInTest()
	v := registeredVisitor("abc123")
	engine.Register(v)

	_, first := doScan(h, `{"qr_data":"`+v.QRData+`"}`)
	if !first.Success {
		t.Fatalf("first scan failed: %+v", first)
	}
	started, _ := engine.Get("abc123")

	_, second := doScan(h, `{"qr_data":"`+v.QRData+`"}`)
	if !second.Success {
		t.Fatalf("second scan failed: %+v", second)
	}
	again, _ := engine.Get("abc123")
	if !again.SessionStarted.Equal(*started.SessionStarted) {
		t.Error("re-scan moved SessionStarted")
	}
}

func TestScanMissingBody(t *testing.T) {
	h, _ := newCheckInTest()
	rec, _ := doScan(h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}
