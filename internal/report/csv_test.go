package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/repository"
)

func sampleRows() []repository.SaleRow {
	started := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	return []repository.SaleRow{
		{
			Purchase: model.Purchase{
				ID:            "p1",
				AmountCents:   1500000,
				PaymentMethod: "cash",
				SoldBy:        "laura",
				Status:        "COMPLETED",
				CreatedAt:     started.Add(-5 * time.Minute),
			},
			ChildName:      "Sofía",
			ChildAge:       6,
			GuardianName:   "María",
			GuardianPhone:  "+573001112233",
			PackageID:      "pkg1hora",
			TotalMinutes:   60,
			VisitorStatus:  model.StatusFinished,
			SessionStarted: &started,
		},
		{
			Purchase: model.Purchase{
				ID:            "p2",
				AmountCents:   800000,
				PaymentMethod: "card",
				SoldBy:        "laura",
				Status:        "COMPLETED",
				CreatedAt:     started,
			},
			ChildName:     "Mateo",
			ChildAge:      4,
			GuardianName:  "Carlos",
			GuardianPhone: "+573004445566",
			PackageID:     "desconocido",
			TotalMinutes:  30,
			VisitorStatus: model.StatusRegistered,
		},
	}
}

func TestSalesCSV(t *testing.T) {
	data, err := SalesCSV(sampleRows(), map[string]string{"pkg1hora": "1 Hora"}, time.UTC)
	if err != nil {
		t.Fatalf("SalesCSV: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("\xef\xbb\xbf")) {
		t.Error("output missing UTF-8 BOM")
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want header + 2 rows", len(records))
	}

	header := strings.Join(records[0], ",")
	for _, col := range []string{"Niño/a", "Acudiente", "Método Pago", "Hora Entrada", "Hora Salida"} {
		if !strings.Contains(header, col) {
			t.Errorf("header missing %q: %s", col, header)
		}
	}

	row := records[1]
	if row[2] != "Sofía" || row[6] != "1 Hora" || row[8] != "$15000" || row[9] != "Efectivo" {
		t.Errorf("row 1 = %v", row)
	}
	if row[11] != "Finalizado" {
		t.Errorf("status label = %q, want Finalizado", row[11])
	}
	if row[12] != "14:00:00" || row[13] != "15:00:00" {
		t.Errorf("entry/exit = %q/%q, want 14:00:00/15:00:00", row[12], row[13])
	}

	row = records[2]
	if row[6] != "N/A" {
		t.Errorf("unknown package rendered as %q, want N/A", row[6])
	}
	if row[12] != "N/A" || row[13] != "N/A" {
		t.Errorf("never-started visitor times = %q/%q, want N/A", row[12], row[13])
	}
	if row[9] != "Tarjeta" {
		t.Errorf("payment label = %q, want Tarjeta", row[9])
	}
}

func TestSalesCSVEmpty(t *testing.T) {
	data, err := SalesCSV(nil, nil, time.UTC)
	if err != nil {
		t.Fatalf("SalesCSV: %v", err)
	}
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty report rows = %d, want header only", len(records))
	}
}
