package qr

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	v := model.Visitor{
		ID:            "3f2a1b4c5d6e7f8091a2b3c4d5e6f708",
		Child:         model.Child{Name: "Sofía Martínez"},
		Guardian:      model.Guardian{Name: "María López"},
		TotalMinutes:  60,
		PaymentMethod: "cash",
	}
	sold := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	data := Generate(v, sold)
	want := "PARKETR3S-3f2a1b4c5d6e7f8091a2b3c4d5e6f708-20250615-SofíaMartí-MaríaLópez-60min-EF"
	if data != want {
		t.Fatalf("payload = %q, want %q", data, want)
	}

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.VisitorID != v.ID {
		t.Errorf("VisitorID = %q, want %q", p.VisitorID, v.ID)
	}
	if p.Date != "20250615" || p.Minutes != 60 || p.PaymentMethod != "EF" {
		t.Errorf("parsed = %+v", p)
	}
}

func TestGeneratePaymentCode(t *testing.T) {
	v := model.Visitor{ID: "abc", Child: model.Child{Name: "A"}, Guardian: model.Guardian{Name: "B"}, TotalMinutes: 30}
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		method string
		want   string
	}{
		{"cash", "EF"},
		{"transfer", "EF"},
		{"card", "TC"},
	}
	for _, tc := range cases {
		v.PaymentMethod = tc.method
		data := Generate(v, now)
		if !strings.HasSuffix(data, "-"+tc.want) {
			t.Errorf("method %s: payload %q does not end in %s", tc.method, data, tc.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"wrong prefix", "OTRO-abc-20250615-Nino-Mama-60min-EF"},
		{"too few parts", "PARKETR3S-abc-20250615-Nino-60min-EF"},
		{"too many parts", "PARKETR3S-abc-def-20250615-Nino-Mama-60min-EF"},
		{"bad minutes", "PARKETR3S-abc-20250615-Nino-Mama-xxmin-EF"},
		{"zero minutes", "PARKETR3S-abc-20250615-Nino-Mama-0min-EF"},
		{"short date", "PARKETR3S-abc-2025615-Nino-Mama-60min-EF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.data); !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q): err = %v, want ErrMalformed", tc.data, err)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	p := Payload{Date: "20250615"}
	sameDay := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC)

	if !SameDay(p, sameDay) {
		t.Error("same calendar day rejected")
	}
	if SameDay(p, nextDay) {
		t.Error("next day accepted")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("20250615"); got != "15/06/2025" {
		t.Errorf("FormatDate = %q, want 15/06/2025", got)
	}
	// Malformed input passes through untouched.
	if got := FormatDate("bad"); got != "bad" {
		t.Errorf("FormatDate(bad) = %q", got)
	}
}

func TestImageURLEscapesPayload(t *testing.T) {
	u := ImageURL("PARKETR3S-abc-20250615-Niño-Mamá-60min-EF")
	if !strings.HasPrefix(u, "https://api.qrserver.com/v1/create-qr-code/") {
		t.Errorf("unexpected base url: %q", u)
	}
	if strings.Contains(u, "ñ") {
		t.Errorf("payload not escaped: %q", u)
	}
}
