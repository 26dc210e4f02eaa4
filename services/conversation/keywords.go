package conversation

import "strings"

// Intent is what a free-form text message asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentBook
	IntentList
	IntentCancel
)

// Keyword sets matched by exact-phrase containment, not fuzzy matching.
// Order matters below: "cancel my booking" must not read as a booking request,
// and "my bookings" must not read as "book".
var (
	cancelKeywords = []string{"cancel"}
	listKeywords   = []string{"my bookings", "my reservations", "show bookings", "list bookings"}
	bookKeywords   = []string{"book", "reserve", "reservation", "meeting room"}
)

// MatchIntent classifies inbound text against the keyword sets.
func MatchIntent(text string) Intent {
	lowered := strings.ToLower(text)

	for _, kw := range cancelKeywords {
		if strings.Contains(lowered, kw) {
			return IntentCancel
		}
	}
	for _, kw := range listKeywords {
		if strings.Contains(lowered, kw) {
			return IntentList
		}
	}
	for _, kw := range bookKeywords {
		if strings.Contains(lowered, kw) {
			return IntentBook
		}
	}
	return IntentNone
}
