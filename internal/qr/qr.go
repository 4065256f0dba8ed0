// Package qr encodes and validates the entry ticket payload printed as a
// QR code. The payload is a dash-separated string:
//
//	PARKETR3S-{visitorId}-{YYYYMMDD}-{childName}-{guardianName}-{minutes}min-{EF|TC}
//
// Visitor ids are minted without dashes so the payload splits cleanly.
// Tickets are only valid on the day they were sold.
package qr

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"time"

	"github.com/parketr3s/parke-tres/internal/model"
)

const prefix = "PARKETR3S"

var (
	ErrMalformed = errors.New("malformed qr payload")
	ErrStale     = errors.New("qr payload is from a previous day")
)

// Payload is the decoded content of a ticket QR.
type Payload struct {
	VisitorID     string
	Date          string // YYYYMMDD
	ChildName     string
	GuardianName  string
	Minutes       int
	PaymentMethod string // EF (cash/transfer) or TC (card)
}

// Generate builds the QR payload for a visitor sold at the given instant.
func Generate(v model.Visitor, now time.Time) string {
	pay := "EF"
	if v.PaymentMethod == "card" {
		pay = "TC"
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s-%dmin-%s",
		prefix,
		v.ID,
		now.Format("20060102"),
		sanitizeName(v.Child.Name),
		sanitizeName(v.Guardian.Name),
		v.TotalMinutes,
		pay,
	)
}

// ImageURL returns a rendering URL for the payload using the external QR
// image service the original front end relied on.
func ImageURL(data string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(data)
}

// Parse decodes a payload. It validates structure only; use SameDay for
// the date rule.
func Parse(data string) (Payload, error) {
	parts := strings.Split(strings.TrimSpace(data), "-")
	if len(parts) != 7 || parts[0] != prefix {
		return Payload{}, ErrMalformed
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(parts[5], "min"))
	if err != nil || minutes <= 0 {
		return Payload{}, ErrMalformed
	}
	if len(parts[2]) != 8 {
		return Payload{}, ErrMalformed
	}
	return Payload{
		VisitorID:     parts[1],
		Date:          parts[2],
		ChildName:     parts[3],
		GuardianName:  parts[4],
		Minutes:       minutes,
		PaymentMethod: parts[6],
	}, nil
}

// SameDay reports whether the payload date matches today's date.
func SameDay(p Payload, now time.Time) bool {
	return p.Date == now.Format("20060102")
}

// FormatDate renders a payload date as DD/MM/YYYY for operator messages.
func FormatDate(qrDate string) string {
	if len(qrDate) != 8 {
		return qrDate
	}
	return qrDate[6:8] + "/" + qrDate[4:6] + "/" + qrDate[0:4]
}

// sanitizeName strips whitespace and truncates to 10 runes, mirroring the
// original payload builder.
func sanitizeName(name string) string {
	var b strings.Builder
	count := 0
	for _, r := range name {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(r)
		count++
		if count == 10 {
			break
		}
	}
	return b.String()
}
