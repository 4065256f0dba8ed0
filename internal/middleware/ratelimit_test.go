package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/config"
)

func rateCtx(e *echo.Echo) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/v1/visitors/board", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/visitors/board")
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	cases := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.9"},
		{"route", "rl:route:GET /v1/visitors/board"},
		{"ip_route", "rl:ip:10.0.0.9:route:GET /v1/visitors/board"},
		{"ip_user_route", "rl:ip:10.0.0.9:user:anon:route:GET /v1/visitors/board"},
	}
	for _, tc := range cases {
		t.Run(tc.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tc.strategy}
			if got := buildRateKey(cfg, rateCtx(e)); got != tc.want {
				t.Errorf("buildRateKey(%s) = %q, want %q", tc.strategy, got, tc.want)
			}
		})
	}
}

// The limiter is mounted before authentication, so the default strategy
// must not carry a user dimension: it would always read "anon" and
// collapse every client behind one IP into a single bucket entry.
func TestDefaultRateKeyHasNoUserDimension(t *testing.T) {
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "")
	cfg := config.LoadRateLimitConfig()
	if cfg.KeyStrategy != "ip_route" {
		t.Fatalf("default KeyStrategy = %q, want ip_route", cfg.KeyStrategy)
	}
	key := buildRateKey(cfg, rateCtx(echo.New()))
	if strings.Contains(key, "anon") {
		t.Errorf("default rate key %q carries a degenerate user dimension", key)
	}
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()

	c := rateCtx(e)
	if got := currentUserID(c); got != "anon" {
		t.Errorf("unauthenticated = %q, want anon", got)
	}

	// JWT claims unmarshal numbers as float64.
	c = rateCtx(e)
	c.Set("user_id", float64(7))
	if got := currentUserID(c); got != "7" {
		t.Errorf("numeric sub = %q, want 7", got)
	}

	c = rateCtx(e)
	c.Set("user_id", "42")
	if got := currentUserID(c); got != "42" {
		t.Errorf("string sub = %q, want 42", got)
	}
}
