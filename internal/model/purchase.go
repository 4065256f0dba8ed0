package model

import "time"

// Purchase status values.
const (
    PurchasePending   = "PENDING"
    PurchaseCompleted = "COMPLETED"
    PurchaseCancelled = "CANCELLED"
)

// Purchase records a completed ticket sale. The tracking engine only reads
// purchases indirectly (guardian contact fields travel on the Visitor); the
// row exists for reporting and reconciliation.
//
// Fields:
//  ID            – primary key identifier.
//  VisitorID     – visitor created by this sale.
//  AmountCents   – total charged, in cents.
//  PaymentMethod – "cash", "card" or "transfer".
//  SoldBy        – username of the seller.
//  Status        – PENDING, COMPLETED or CANCELLED.
//  CreatedAt     – creation timestamp.
type Purchase struct {
    ID            string    `json:"id"`
    VisitorID     string    `json:"visitor_id"`
    AmountCents   int64     `json:"amount_cents"`
    PaymentMethod string    `json:"payment_method"`
    SoldBy        string    `json:"sold_by"`
    Status        string    `json:"status"`
    CreatedAt     time.Time `json:"created_at"`
}
