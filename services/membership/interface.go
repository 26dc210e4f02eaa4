package membership

import "context"

// MemberGate answers the one question the booking flow needs from the CRM:
// does this customer have an active contract. The flow never starts without a
// yes.
type MemberGate interface {
	HasActiveContract(ctx context.Context, customerID string) (bool, error)
}
