package booking

import (
	"fmt"

	"roomdesk/models"
)

// ConfirmationMessage renders the human-readable confirmation for a freshly
// created booking. Every success path shows the booking number so the
// customer can refer to it when cancelling.
func ConfirmationMessage(b *models.Booking, resourceName string) string {
	return fmt.Sprintf(
		"Your booking is confirmed!\nBooking number: %s\nRoom: %s\nDate: %s\nTime: %s - %s",
		b.BookingNumber, resourceName, b.Date, b.StartClock(), b.EndClock())
}

// CancellationMessage renders the human-readable result of a cancellation.
func CancellationMessage(b *models.Booking) string {
	return fmt.Sprintf("Booking %s on %s (%s - %s) has been cancelled.",
		b.BookingNumber, b.Date, b.StartClock(), b.EndClock())
}
