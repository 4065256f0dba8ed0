package model

import "time"

// TimePackage is a sellable block of playground minutes. Packages are
// managed by admins and listed publicly on the sale screen.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name ("1 Hora", "Todo el Día"...).
//  Minutes     – minutes granted by the package.
//  PriceCents  – price in cents.
//  Description – short marketing text.
//  Popular     – highlight flag on the sale screen.
//  Active      – inactive packages are hidden from sale but kept for reports.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type TimePackage struct {
    ID          string    `json:"id"`
    Name        string    `json:"name"`
    Minutes     int       `json:"minutes"`
    PriceCents  int64     `json:"price_cents"`
    Description string    `json:"description"`
    Popular     bool      `json:"popular"`
    Active      bool      `json:"active"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}
