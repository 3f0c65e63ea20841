package domain

// OutcomeKind enumerates the results a cart mutation can report.
type OutcomeKind string

const (
	// OutcomeNone marks a silent no-op (remove of a missing line, clear of
	// an already-empty cart). It must not produce a notification.
	OutcomeNone              OutcomeKind = ""
	OutcomeAdded             OutcomeKind = "added"
	OutcomeRemoved           OutcomeKind = "removed"
	OutcomeQuantityUpdated   OutcomeKind = "quantityUpdated"
	OutcomeStockInsufficient OutcomeKind = "stockInsufficient"
	OutcomeDeliverySelected  OutcomeKind = "deliveryOptionSelected"
	OutcomeCleared           OutcomeKind = "cleared"
)

// Outcome describes the result of a cart mutation. Mutations never fail
// with an error for expected conditions; presentation layers map outcomes
// to user-visible notifications.
type Outcome struct {
	Kind        OutcomeKind
	ProductName string
	Quantity    int
	// Available is the known stock when Kind is OutcomeStockInsufficient.
	Available  int
	OptionName string
	PriceCents int64
	// Count is the number of items removed when Kind is OutcomeCleared.
	Count int
}

// IsNone reports whether the outcome is a silent no-op.
func (o Outcome) IsNone() bool {
	return o.Kind == OutcomeNone
}
