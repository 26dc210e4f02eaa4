package conversation

import (
	"context"
	"time"

	resourceRepo "roomdesk/database/repository/resource"
	"roomdesk/models"
	"roomdesk/services/availability"
	"roomdesk/services/booking"
	"roomdesk/services/membership"
)

// Controller turns inbound channel events into outbound prompts. It holds no
// session state: every piece of flow memory rides inside the continuation
// tokens on the outbound actions.
type Controller interface {
	HandleEvent(ctx context.Context, event models.InboundEvent) ([]models.OutboundMessage, error)
}

// ReplyProvider drafts a reply for text the keyword sets do not recognize.
// Implemented by the AI collaborator outside this engine; a nil provider
// falls back to a scripted help message.
type ReplyProvider interface {
	Draft(ctx context.Context, customerID, text string) (string, error)
}

// DefaultController implements the stateless booking state machine.
type DefaultController struct {
	Gate         membership.MemberGate
	Availability availability.AvailabilityService
	Bookings     booking.BookingService
	ResourceRepo resourceRepo.ResourceRepository
	Reply        ReplyProvider
	Location     *time.Location
	DaysAhead    int // how many selectable dates to offer
	DisplayMax   int // cap on rendered time-slot actions
}
