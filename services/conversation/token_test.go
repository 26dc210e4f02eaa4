package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	original := Token{
		Action:    ActionBook,
		Step:      StepConfirm,
		Date:      "2025-03-10",
		Start:     "10:00",
		End:       "10:30",
		BookingID: "bk-1",
		Nonce:     "nonce-1",
	}

	decoded, err := DecodeToken(original.Encode())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestTokenRoundTripMinimal(t *testing.T) {
	original := Token{Action: ActionCancel, Step: StepConfirm, BookingID: "bk-9"}
	decoded, err := DecodeToken(original.Encode())
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeTokenRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a query string", "%%%"},
		{"unknown key", "action=book&step=date&evil=1"},
		{"unknown action", "action=delete&step=date"},
		{"missing action", "step=date"},
		{"unknown step", "action=book&step=teleport"},
		{"missing step", "action=book"},
		{"bad date", "action=book&step=date&date=03-10-2025"},
		{"bad start clock", "action=book&step=time&date=2025-03-10&start=25:00&end=10:30"},
		{"bad end clock", "action=book&step=time&date=2025-03-10&start=10:00&end=1030"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.raw)
			assert.ErrorIs(t, err, ErrBadToken)
		})
	}
}

func TestRequireFields(t *testing.T) {
	full := Token{Action: ActionBook, Step: StepConfirm, Date: "2025-03-10", Start: "10:00", End: "10:30"}
	assert.NoError(t, full.requireFields("date", "start", "end"))

	missing := Token{Action: ActionBook, Step: StepConfirm, Date: "2025-03-10"}
	assert.ErrorIs(t, missing.requireFields("date", "start", "end"), ErrBadToken)

	noID := Token{Action: ActionCancel, Step: StepConfirm}
	assert.ErrorIs(t, noID.requireFields("id"), ErrBadToken)
}

func TestMatchIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"book", IntentBook},
		{"I want to reserve a meeting room", IntentBook},
		{"Book a room please", IntentBook},
		{"my bookings", IntentList},
		{"show bookings", IntentList},
		{"cancel", IntentCancel},
		{"cancel my booking", IntentCancel},
		{"please cancel my reservation", IntentCancel},
		{"hello there", IntentNone},
		{"", IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchIntent(tt.text))
		})
	}
}
