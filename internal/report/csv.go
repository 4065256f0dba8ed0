// Package report renders the back-office sales exports.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/repository"
)

// utf8BOM makes spreadsheet apps decode the Spanish headers correctly.
const utf8BOM = "\ufeff"

var csvHeaders = []string{
	"ID", "Fecha", "Niño/a", "Edad", "Acudiente", "Teléfono",
	"Paquete", "Tiempo (min)", "Total", "Método Pago", "Vendido Por",
	"Estado", "Hora Entrada", "Hora Salida",
}

// SalesCSV renders the sales report rows as CSV. packageNames maps
// package ids to display names; unknown ids render as "N/A". Times are
// rendered in the given location (the park's local time zone).
func SalesCSV(rows []repository.SaleRow, packageNames map[string]string, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		pkg := packageNames[r.PackageID]
		if pkg == "" {
			pkg = "N/A"
		}
		entry := "N/A"
		exit := "N/A"
		if r.SessionStarted != nil {
			entry = r.SessionStarted.In(loc).Format("15:04:05")
			if r.VisitorStatus == model.StatusFinished {
				exit = r.SessionStarted.Add(time.Duration(r.TotalMinutes) * time.Minute).In(loc).Format("15:04:05")
			}
		}
		rec := []string{
			r.Purchase.ID,
			r.Purchase.CreatedAt.In(loc).Format("02/01/2006"),
			r.ChildName,
			fmt.Sprintf("%d", r.ChildAge),
			r.GuardianName,
			r.GuardianPhone,
			pkg,
			fmt.Sprintf("%d", r.TotalMinutes),
			fmt.Sprintf("$%d", r.Purchase.AmountCents/100),
			paymentLabel(r.Purchase.PaymentMethod),
			r.Purchase.SoldBy,
			statusLabel(r.VisitorStatus),
			entry,
			exit,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paymentLabel(method string) string {
	switch method {
	case "cash":
		return "Efectivo"
	case "card":
		return "Tarjeta"
	case "transfer":
		return "Transferencia"
	}
	return method
}

func statusLabel(status string) string {
	switch status {
	case model.StatusActive:
		return "Activo"
	case model.StatusPaused:
		return "Pausado"
	case model.StatusFinished:
		return "Finalizado"
	case model.StatusRegistered:
		return "Registrado"
	}
	return status
}
