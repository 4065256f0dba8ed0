package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

func newTrackingTest() (*TrackingHandler, *tracking.Engine) {
	engine := tracking.NewEngine(tracking.NewStore(), nil)
	return NewTrackingHandler(engine), engine
}

func doVisitorPost(h echo.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h(c); err != nil {
		panic(err)
	}
	return rec
}

func TestTrackingLifecycleEndpoints(t *testing.T) {
	h, engine := newTrackingTest()
	engine.Register(registeredVisitor("abc"))

	steps := []struct {
		name       string
		fn         echo.HandlerFunc
		wantStatus string
	}{
		{"start", h.Start, model.StatusActive},
		{"pause", h.Pause, model.StatusPaused},
		{"resume", h.Resume, model.StatusActive},
		{"end", h.End, model.StatusFinished},
	}
	for _, s := range steps {
		rec := doVisitorPost(s.fn, "abc", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: code = %d, body = %s", s.name, rec.Code, rec.Body)
		}
		var v model.Visitor
		if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
			t.Fatalf("%s: decode: %v", s.name, err)
		}
		if v.Status != s.wantStatus {
			t.Errorf("%s: status = %s, want %s", s.name, v.Status, s.wantStatus)
		}
	}
}

func TestTrackingErrorMapping(t *testing.T) {
	h, engine := newTrackingTest()
	engine.Register(registeredVisitor("abc"))

	// Unknown visitor → 404.
	if rec := doVisitorPost(h.Start, "ghost", ""); rec.Code != http.StatusNotFound {
		t.Errorf("start unknown: code = %d, want 404", rec.Code)
	}
	// Pause before start → 409.
	if rec := doVisitorPost(h.Pause, "abc", ""); rec.Code != http.StatusConflict {
		t.Errorf("pause registered: code = %d, want 409", rec.Code)
	}
	// Non-positive recharge → 400.
	if rec := doVisitorPost(h.AddTime, "abc", `{"minutes":0}`); rec.Code != http.StatusBadRequest {
		t.Errorf("add 0 minutes: code = %d, want 400", rec.Code)
	}
}

func TestTrackingAddTime(t *testing.T) {
	h, engine := newTrackingTest()
	engine.Register(registeredVisitor("abc"))

	rec := doVisitorPost(h.AddTime, "abc", `{"minutes":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body)
	}
	var v model.Visitor
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatal(err)
	}
	if v.TotalMinutes != 90 || v.Recharges != 1 {
		t.Errorf("total=%d recharges=%d, want 90/1", v.TotalMinutes, v.Recharges)
	}
}

func TestTrackingBoard(t *testing.T) {
	h, engine := newTrackingTest()
	engine.Register(registeredVisitor("reg"))
	engine.Register(registeredVisitor("act"))
	if err := engine.Start("act"); err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/visitors/board", nil)
	rec := httptest.NewRecorder()
	if err := h.Board(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Visitors []model.Visitor `json:"visitors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Visitors) != 1 || resp.Visitors[0].ID != "act" {
		t.Errorf("board = %+v, want only the active visitor", resp.Visitors)
	}
}
