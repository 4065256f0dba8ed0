package notify

import (
	"context"
	"log"
	"time"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/queue"
	queue_publisher "github.com/parketr3s/parke-tres/internal/service"
)

// QueueDispatcher sends warnings and session-ended messages through the
// message broker. It implements the tracking engine's Dispatcher
// interface; retry and delivery confirmation belong to the consumer side.
type QueueDispatcher struct {
	announcer *Announcer
}

// NewQueueDispatcher builds a dispatcher that renders announcements with
// the given announcer.
func NewQueueDispatcher(announcer *Announcer) *QueueDispatcher {
	return &QueueDispatcher{announcer: announcer}
}

// SendWarning publishes the 5-minutes-remaining WhatsApp message.
func (d *QueueDispatcher) SendWarning(ctx context.Context, v model.Visitor, minutesLeft int) error {
	msg := BuildTimeWarning(v, minutesLeft)
	return queue_publisher.PublishWhatsApp(ctx, queue.WhatsAppEvent{
		VisitorID:    v.ID,
		ChildName:    v.Child.Name,
		GuardianName: v.Guardian.Name,
		To:           msg.To,
		Kind:         "warning",
		MinutesLeft:  minutesLeft,
		Body:         msg.Body,
		QueuedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// SendSessionEnded publishes the time-ended WhatsApp message.
func (d *QueueDispatcher) SendSessionEnded(ctx context.Context, v model.Visitor) error {
	msg := BuildTimeEnded(v)
	return queue_publisher.PublishWhatsApp(ctx, queue.WhatsAppEvent{
		VisitorID:    v.ID,
		ChildName:    v.Child.Name,
		GuardianName: v.Guardian.Name,
		To:           msg.To,
		Kind:         "time_ended",
		Body:         msg.Body,
		QueuedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// Announce publishes the speaker announcement. No outcome is consumed;
// a publish failure is logged and dropped.
func (d *QueueDispatcher) Announce(ctx context.Context, v model.Visitor) {
	s := d.announcer.Settings()
	ev := queue.AnnouncementEvent{
		VisitorID: v.ID,
		Text:      d.announcer.Render(v.Child.Name, v.Guardian.Name),
		VoiceName: s.Voice.VoiceName,
		Rate:      s.Voice.Rate,
		Pitch:     s.Voice.Pitch,
		QueuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishAnnouncement(ctx, ev); err != nil {
		log.Printf("notify: announcement publish for %s failed: %v", v.ID, err)
	}
}
