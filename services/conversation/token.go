package conversation

import (
	"errors"
	"fmt"
	"net/url"

	"roomdesk/utils"
)

// Continuation-token vocabulary. The token is the only memory of an
// in-progress flow: it is embedded in every outbound action and echoed back
// verbatim by the channel.
const (
	ActionBook   = "book"
	ActionCancel = "cancel"

	StepDate    = "date"
	StepTime    = "time"
	StepConfirm = "confirm"
	StepList    = "list"
)

// ErrBadToken is returned for any token that does not match the expected
// shape. Callers answer it with a generic abort message, never a stack trace.
var ErrBadToken = errors.New("malformed continuation token")

// Token is the decoded continuation state round-tripped through the channel.
type Token struct {
	Action    string
	Step      string
	Date      string // "YYYY-MM-DD"
	Start     string // "HH:MM"
	End       string // "HH:MM"
	BookingID string
	Nonce     string
}

// Encode serializes the token as a key=value query string.
func (t Token) Encode() string {
	v := url.Values{}
	v.Set("action", t.Action)
	v.Set("step", t.Step)
	if t.Date != "" {
		v.Set("date", t.Date)
	}
	if t.Start != "" {
		v.Set("start", t.Start)
	}
	if t.End != "" {
		v.Set("end", t.End)
	}
	if t.BookingID != "" {
		v.Set("id", t.BookingID)
	}
	if t.Nonce != "" {
		v.Set("nonce", t.Nonce)
	}
	return v.Encode()
}

// DecodeToken parses and validates a caller-echoed token. The caller controls
// this string, so every field is checked against the fixed vocabulary and
// format; anything unexpected yields ErrBadToken.
func DecodeToken(raw string) (Token, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return Token{}, ErrBadToken
	}

	for key := range values {
		switch key {
		case "action", "step", "date", "start", "end", "id", "nonce":
		default:
			return Token{}, ErrBadToken
		}
	}

	t := Token{
		Action:    values.Get("action"),
		Step:      values.Get("step"),
		Date:      values.Get("date"),
		Start:     values.Get("start"),
		End:       values.Get("end"),
		BookingID: values.Get("id"),
		Nonce:     values.Get("nonce"),
	}

	switch t.Action {
	case ActionBook, ActionCancel:
	default:
		return Token{}, ErrBadToken
	}
	switch t.Step {
	case StepDate, StepTime, StepConfirm, StepList:
	default:
		return Token{}, ErrBadToken
	}
	if t.Date != "" && !utils.ValidDate(t.Date) {
		return Token{}, ErrBadToken
	}
	if t.Start != "" {
		if _, err := utils.ParseClock(t.Start); err != nil {
			return Token{}, ErrBadToken
		}
	}
	if t.End != "" {
		if _, err := utils.ParseClock(t.End); err != nil {
			return Token{}, ErrBadToken
		}
	}
	return t, nil
}

// requireFields validates that a token carries everything its step needs.
// The shape is re-checked on every transition: a stale or tampered token must
// abort, not advance.
func (t Token) requireFields(fields ...string) error {
	for _, f := range fields {
		var present bool
		switch f {
		case "date":
			present = t.Date != ""
		case "start":
			present = t.Start != ""
		case "end":
			present = t.End != ""
		case "id":
			present = t.BookingID != ""
		default:
			return fmt.Errorf("unknown required field %q", f)
		}
		if !present {
			return ErrBadToken
		}
	}
	return nil
}
