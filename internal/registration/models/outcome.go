package models

// MessageKind names one of the two notifications sent per registration.
type MessageKind string

const (
	MessageParticipant MessageKind = "participant"
	MessageAdmin       MessageKind = "admin"
)

// DeliveryResult is the outcome of one dispatch: a provider message id or an
// error, never both.
type DeliveryResult struct {
	MessageID string
	Err       error
}

// Delivered reports whether the transport accepted the message.
func (r DeliveryResult) Delivered() bool {
	return r.Err == nil && r.MessageID != ""
}

// LedgerResult records whether a ledger write was attempted and how it ended.
type LedgerResult struct {
	Backend   string
	Attempted bool
	Err       error
}

// Written reports a successful append.
func (r LedgerResult) Written() bool {
	return r.Attempted && r.Err == nil
}

// Outcome collects the side-effect results of one accepted registration.
type Outcome struct {
	Submission  *Submission
	Provider    string
	Participant DeliveryResult
	Admin       DeliveryResult
	Ledger      LedgerResult
}

// AllDeliveriesFailed reports whether neither notification went out.
func (o *Outcome) AllDeliveriesFailed() bool {
	return !o.Participant.Delivered() && !o.Admin.Delivered()
}
