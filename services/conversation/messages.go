package conversation

import (
	"fmt"
	"strings"

	"roomdesk/models"
)

// Scripted replies. Every failure path speaks through the same channel as
// success, in words a customer can act on.
const (
	gateDeniedText = "Meeting room booking is available to customers with an active contract. " +
		"Please contact our support desk if you believe this is a mistake."
	gateUnavailableText = "We could not verify your membership right now. Please try again in a few minutes."
	genericAbortText    = "Sorry, something went wrong with that selection. Please start over by typing \"book\"."
	helpText            = "I can help you with the meeting room. Type \"book\" to make a reservation, " +
		"\"my bookings\" to see upcoming ones, or \"cancel\" to cancel."
)

func messagesOf(text string) []models.OutboundMessage {
	return []models.OutboundMessage{{Text: text}}
}

// dateSelectionMessage offers the next DaysAhead calendar days as actions.
func (c *DefaultController) dateSelectionMessage() models.OutboundMessage {
	now := c.today()
	actions := make([]models.OutboundAction, 0, c.DaysAhead)
	for i := 0; i < c.DaysAhead; i++ {
		day := now.AddDate(0, 0, i)
		token := Token{
			Action: ActionBook,
			Step:   StepDate,
			Date:   day.Format("2006-01-02"),
		}
		actions = append(actions, models.OutboundAction{
			Label: day.Format("Mon 1/2"),
			Data:  token.Encode(),
		})
	}
	return models.OutboundMessage{
		Text:    "Which day would you like to book?",
		Actions: actions,
	}
}

// timeSlotMessage renders available slots grouped by morning/afternoon,
// capped to the display maximum.
func (c *DefaultController) timeSlotMessage(resourceName, date string, available []models.TimeSlot) models.OutboundMessage {
	const noon = 12 * 60

	var morning, afternoon int
	actions := make([]models.OutboundAction, 0, c.DisplayMax)
	for _, slot := range available {
		if slot.Start < noon {
			morning++
		} else {
			afternoon++
		}
		if len(actions) >= c.DisplayMax {
			continue
		}
		token := Token{
			Action: ActionBook,
			Step:   StepTime,
			Date:   date,
			Start:  slot.StartClock(),
			End:    slot.EndClock(),
		}
		actions = append(actions, models.OutboundAction{
			Label: fmt.Sprintf("%s - %s", slot.StartClock(), slot.EndClock()),
			Data:  token.Encode(),
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available times for %s on %s", resourceName, date)
	fmt.Fprintf(&b, " (morning: %d, afternoon: %d)", morning, afternoon)
	if len(available) > c.DisplayMax {
		fmt.Fprintf(&b, "\nShowing the first %d slots.", c.DisplayMax)
	}
	return models.OutboundMessage{Text: b.String(), Actions: actions}
}

// bookingListMessage renders the customer's upcoming bookings.
func bookingListMessage(bookings []models.Booking) models.OutboundMessage {
	var b strings.Builder
	b.WriteString("Your upcoming bookings:")
	for _, bk := range bookings {
		fmt.Fprintf(&b, "\n%s  %s  %s - %s", bk.BookingNumber, bk.Date, bk.StartClock(), bk.EndClock())
	}
	return models.OutboundMessage{Text: b.String()}
}

// cancelTargetMessage renders upcoming bookings as cancellable actions.
func cancelTargetMessage(bookings []models.Booking) models.OutboundMessage {
	actions := make([]models.OutboundAction, 0, len(bookings))
	for _, bk := range bookings {
		token := Token{
			Action:    ActionCancel,
			Step:      StepConfirm,
			BookingID: bk.ID,
		}
		actions = append(actions, models.OutboundAction{
			Label: fmt.Sprintf("%s %s %s", bk.BookingNumber, bk.Date, bk.StartClock()),
			Data:  token.Encode(),
		})
	}
	return models.OutboundMessage{
		Text:    "Which booking would you like to cancel?",
		Actions: actions,
	}
}
