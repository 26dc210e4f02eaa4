package conversation

import (
	"context"
	"fmt"
	"time"

	"roomdesk/models"
	"roomdesk/services/booking"
	"roomdesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleEvent is the single entry point for both free-form text and postback
// actions. Replays of the same action must be tolerated: the only
// non-idempotent transition (confirm) is protected by the nonce dedupe and
// the transactional availability re-check underneath.
func (c *DefaultController) HandleEvent(ctx context.Context, event models.InboundEvent) ([]models.OutboundMessage, error) {
	switch event.Type {
	case models.EventTypeText:
		return c.handleText(ctx, event)
	case models.EventTypeAction:
		return c.handleAction(ctx, event)
	default:
		return messagesOf(genericAbortText), nil
	}
}

func (c *DefaultController) handleText(ctx context.Context, event models.InboundEvent) ([]models.OutboundMessage, error) {
	logger := utils.GetLogger()

	switch MatchIntent(event.Text) {
	case IntentBook:
		// The gate runs once, on entry. Everything after rides on tokens.
		active, err := c.Gate.HasActiveContract(ctx, event.CustomerID)
		if err != nil {
			logger.Warn("member gate unreachable",
				zap.String("customerID", event.CustomerID), zap.Error(err))
			return messagesOf(gateUnavailableText), nil
		}
		if !active {
			return messagesOf(gateDeniedText), nil
		}
		return []models.OutboundMessage{c.dateSelectionMessage()}, nil

	case IntentList:
		return c.bookingListMessages(ctx, event.CustomerID)

	case IntentCancel:
		return c.cancelTargetMessages(ctx, event.CustomerID)

	default:
		if c.Reply != nil {
			draft, err := c.Reply.Draft(ctx, event.CustomerID, event.Text)
			if err == nil && draft != "" {
				return messagesOf(draft), nil
			}
			logger.Debug("reply provider fell through", zap.Error(err))
		}
		return messagesOf(helpText), nil
	}
}

func (c *DefaultController) handleAction(ctx context.Context, event models.InboundEvent) ([]models.OutboundMessage, error) {
	token, err := DecodeToken(event.Postback)
	if err != nil {
		utils.GetLogger().Warn("rejected malformed postback token",
			zap.String("customerID", event.CustomerID))
		return messagesOf(genericAbortText), nil
	}

	if token.Action == ActionCancel {
		return c.executeCancel(ctx, token)
	}

	switch token.Step {
	case StepDate:
		if token.Date == "" {
			// Loop back to date selection (the "pick another date" control).
			return []models.OutboundMessage{c.dateSelectionMessage()}, nil
		}
		return c.timeSelectionMessages(ctx, token.Date)

	case StepTime:
		if err := token.requireFields("date", "start", "end"); err != nil {
			return messagesOf(genericAbortText), nil
		}
		return []models.OutboundMessage{c.confirmationPrompt(token)}, nil

	case StepConfirm:
		if err := token.requireFields("date", "start", "end"); err != nil {
			return messagesOf(genericAbortText), nil
		}
		return c.executeCreate(ctx, event, token)

	case StepList:
		return c.bookingListMessages(ctx, event.CustomerID)

	default:
		return messagesOf(genericAbortText), nil
	}
}

// timeSelectionMessages renders available slots for a chosen date, or loops
// back to date selection when the day is fully booked.
func (c *DefaultController) timeSelectionMessages(ctx context.Context, date string) ([]models.OutboundMessage, error) {
	resource, msg := c.defaultResource(ctx)
	if resource == nil {
		return messagesOf(msg), nil
	}

	slots, err := c.Availability.Availability(ctx, *resource, date)
	if err != nil {
		return nil, fmt.Errorf("availability query failed: %w", err)
	}

	var available []models.TimeSlot
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}
	if len(available) == 0 {
		return []models.OutboundMessage{
			{Text: fmt.Sprintf("%s is fully booked on %s. Please choose another day.", resource.Name, date)},
			c.dateSelectionMessage(),
		}, nil
	}

	return []models.OutboundMessage{c.timeSlotMessage(resource.Name, date, available)}, nil
}

// executeCreate drives the Terminal(Created) transition. Failures render the
// reason and keep the flow retryable; they never advance state.
func (c *DefaultController) executeCreate(ctx context.Context, event models.InboundEvent, token Token) ([]models.OutboundMessage, error) {
	resource, msg := c.defaultResource(ctx)
	if resource == nil {
		return messagesOf(msg), nil
	}

	start, _ := utils.ParseClock(token.Start)
	end, _ := utils.ParseClock(token.End)

	result, err := c.Bookings.Create(ctx, booking.CreateInput{
		ResourceID:   resource.ID,
		CustomerID:   event.CustomerID,
		CustomerName: event.CustomerName,
		Date:         token.Date,
		Start:        start,
		End:          end,
		Channel:      "chat",
		Nonce:        token.Nonce,
	})
	if err != nil {
		switch booking.ErrorCode(err) {
		case booking.CodeConflict:
			return []models.OutboundMessage{
				{Text: booking.UserMessage(err) + " Please pick a different time."},
				c.dateSelectionMessage(),
			}, nil
		case booking.CodeValidation, booking.CodeNotFound:
			return messagesOf(booking.UserMessage(err)), nil
		}
		return nil, err
	}

	text := booking.ConfirmationMessage(result.Booking, resource.Name)
	if result.Warning != "" {
		text += "\n" + result.Warning
	}
	return []models.OutboundMessage{{
		Text: text,
		Actions: []models.OutboundAction{{
			Label: "View my bookings",
			Data:  Token{Action: ActionBook, Step: StepList}.Encode(),
		}},
	}}, nil
}

// executeCancel is the single-turn cancel branch, keyed by the booking id
// carried in the token.
func (c *DefaultController) executeCancel(ctx context.Context, token Token) ([]models.OutboundMessage, error) {
	if err := token.requireFields("id"); err != nil {
		return messagesOf(genericAbortText), nil
	}

	cancelled, err := c.Bookings.Cancel(ctx, token.BookingID, "cancelled via chat")
	if err != nil {
		switch booking.ErrorCode(err) {
		case booking.CodeNotFound, booking.CodeAlreadyCancelled, booking.CodeValidation:
			return messagesOf(booking.UserMessage(err)), nil
		}
		return nil, err
	}
	return messagesOf(booking.CancellationMessage(cancelled)), nil
}

func (c *DefaultController) bookingListMessages(ctx context.Context, customerID string) ([]models.OutboundMessage, error) {
	bookings, err := c.Bookings.ListForCustomer(ctx, customerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return messagesOf("You have no upcoming bookings."), nil
	}
	return []models.OutboundMessage{bookingListMessage(bookings)}, nil
}

func (c *DefaultController) cancelTargetMessages(ctx context.Context, customerID string) ([]models.OutboundMessage, error) {
	bookings, err := c.Bookings.ListForCustomer(ctx, customerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return messagesOf("You have no upcoming bookings to cancel."), nil
	}
	return []models.OutboundMessage{cancelTargetMessage(bookings)}, nil
}

// confirmationPrompt renders the summary with the two terminal choices:
// confirm (carrying a fresh nonce) or back to date selection.
func (c *DefaultController) confirmationPrompt(token Token) models.OutboundMessage {
	confirm := Token{
		Action: ActionBook,
		Step:   StepConfirm,
		Date:   token.Date,
		Start:  token.Start,
		End:    token.End,
		Nonce:  uuid.New().String(),
	}
	back := Token{Action: ActionBook, Step: StepDate}

	return models.OutboundMessage{
		Text: fmt.Sprintf("Book the meeting room on %s from %s to %s?",
			token.Date, token.Start, token.End),
		Actions: []models.OutboundAction{
			{Label: "Confirm", Data: confirm.Encode()},
			{Label: "Pick another date", Data: back.Encode()},
		},
	}
}

// defaultResource resolves the bookable room. The engine supports exactly one
// bookable resource type; the conversation flow books the first active room.
func (c *DefaultController) defaultResource(ctx context.Context) (*models.Resource, string) {
	resources, err := c.ResourceRepo.List(true)
	if err != nil {
		utils.GetLogger().Error("failed to list resources", zap.Error(err))
		return nil, genericAbortText
	}
	if len(resources) == 0 {
		return nil, "No meeting room is configured for booking yet."
	}
	return &resources[0], ""
}

func (c *DefaultController) today() time.Time {
	return time.Now().In(c.Location)
}
