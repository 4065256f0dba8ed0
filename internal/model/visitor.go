package model

import "time"

// Visitor status values. A visitor is created REGISTERED at purchase time,
// becomes ACTIVE on check-in, may alternate with PAUSED, and ends FINISHED.
// FINISHED is terminal.
const (
    StatusRegistered = "REGISTERED"
    StatusActive     = "ACTIVE"
    StatusPaused     = "PAUSED"
    StatusFinished   = "FINISHED"
)

// Child holds the minor's details captured at registration.
//
// Fields:
//  Name         – child's full name.
//  Age          – age in years.
//  Allergies    – free-text allergy notes (optional).
//  SpecialNeeds – free-text care notes (optional).
type Child struct {
    Name         string `json:"name"`
    Age          int    `json:"age"`
    Allergies    string `json:"allergies,omitempty"`
    SpecialNeeds string `json:"special_needs,omitempty"`
}

// Guardian holds the responsible adult's contact details. The phone number
// is the destination for WhatsApp notifications.
//
// Fields:
//  Name         – guardian's full name.
//  Phone        – phone number in international format.
//  Email        – optional email address.
//  Relationship – relationship to the child ("Padre", "Madre", "Abuelo/a"...).
type Guardian struct {
    Name         string `json:"name"`
    Phone        string `json:"phone"`
    Email        string `json:"email,omitempty"`
    Relationship string `json:"relationship"`
}

// Visitor represents one playground session purchased for one child. It
// carries both the sale snapshot (package, payment, seller) and the mutable
// session-tracking fields owned by the tracking engine.
//
// Timing model: SessionStarted is set once, on the first transition to
// ACTIVE, and never cleared. Elapsed time is accumulated only while ACTIVE:
// ConsumedSeconds holds the seconds of prior ACTIVE stretches and
// ActiveSince anchors the current stretch (nil while PAUSED or not started).
//
// Fields:
//  ID               – opaque unique identifier, immutable.
//  Child, Guardian  – registration details.
//  PackageID        – time package purchased.
//  TotalMinutes     – minutes currently allotted; grows on recharge.
//  RemainingMinutes – derived minutes left; refreshed by the poller while
//                     ACTIVE, frozen at 0 once FINISHED.
//  InitialMinutes   – minutes at original purchase, immutable.
//  RegistrationDate – when the sale was made.
//  SessionStarted   – first activation timestamp, nil until first check-in.
//  ActiveSince      – anchor of the current ACTIVE stretch, nil otherwise.
//  ConsumedSeconds  – seconds consumed in completed ACTIVE stretches.
//  Status           – see status constants above.
//  QRData           – encoded entry ticket payload.
//  PaymentMethod    – "cash", "card" or "transfer".
//  SoldBy           – username of the staff member who made the sale.
//  WhatsAppSent5Min – set exactly once when the 5-minute warning fires.
//  SpeakerActivated5Min – set alongside the warning's voice announcement.
//  Recharges        – number of mid-session time top-ups.
//  AlertActive      – board highlight flag, set with the warning.
type Visitor struct {
    ID               string     `json:"id"`
    Child            Child      `json:"child"`
    Guardian         Guardian   `json:"guardian"`
    PackageID        string     `json:"package_id"`
    TotalMinutes     int        `json:"total_minutes"`
    RemainingMinutes int        `json:"remaining_minutes"`
    InitialMinutes   int        `json:"initial_minutes"`
    RegistrationDate time.Time  `json:"registration_date"`
    SessionStarted   *time.Time `json:"session_started,omitempty"`
    ActiveSince      *time.Time `json:"-"`
    ConsumedSeconds  int64      `json:"-"`
    Status           string     `json:"status"`
    QRData           string     `json:"qr_data"`
    PaymentMethod    string     `json:"payment_method"`
    SoldBy           string     `json:"sold_by"`
    WhatsAppSent5Min bool       `json:"whatsapp_sent_5min"`
    SpeakerActivated5Min bool   `json:"speaker_activated_5min"`
    Recharges        int        `json:"recharges"`
    AlertActive      bool       `json:"alert_active"`
}
