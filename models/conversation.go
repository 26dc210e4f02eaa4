package models

// InboundEvent is a single, already-verified event from the messaging channel.
// Signature verification and profile lookup happen upstream; by the time an
// event reaches the engine it carries the resolved customer identity.
type InboundEvent struct {
	Type         string `json:"type"` // "text" | "action"
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Text         string `json:"text,omitempty"`     // free-form text for "text" events
	Postback     string `json:"postback,omitempty"` // opaque key=value token for "action" events
}

// Inbound event types.
const (
	EventTypeText   = "text"
	EventTypeAction = "action"
)

// OutboundAction is one selectable control on an outbound message. Data is the
// continuation token echoed back verbatim by the channel on the next action.
type OutboundAction struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// OutboundMessage is a reply rendered by the conversation controller. A message
// with no actions is plain text.
type OutboundMessage struct {
	Text    string           `json:"text"`
	Actions []OutboundAction `json:"actions,omitempty"`
}
