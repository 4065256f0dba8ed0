// Package queue defines message payloads exchanged over the message broker.
package queue

// Broker queue names. WhatsApp messages are consumed by the in-process
// delivery worker; speaker announcements are consumed by the tracking
// board client at the park entrance.
const (
	WhatsAppQueueName = "notify.whatsapp"
	SpeakerQueueName  = "notify.speaker"
)

// WhatsAppEvent is published when the tracking engine wants a guardian
// message delivered. It carries the rendered text so consumers never query
// the primary database.
type WhatsAppEvent struct {
	VisitorID    string `json:"visitor_id"`
	ChildName    string `json:"child_name"`
	GuardianName string `json:"guardian_name"`
	To           string `json:"to"`
	Kind         string `json:"kind"` // "warning" or "time_ended"
	MinutesLeft  int    `json:"minutes_left,omitempty"`
	Body         string `json:"body"`
	QueuedAt     string `json:"queued_at"`
}

// AnnouncementEvent is published alongside the 5-minute warning so the
// entrance speaker can play a synthesized voice announcement.
type AnnouncementEvent struct {
	VisitorID string  `json:"visitor_id"`
	Text      string  `json:"text"`
	VoiceName string  `json:"voice_name"`
	Rate      float64 `json:"rate"`
	Pitch     float64 `json:"pitch"`
	QueuedAt  string  `json:"queued_at"`
}
