// Package notify turns cart mutation outcomes into user-visible messages.
// The cart store itself never depends on how (or whether) these are shown.
package notify

import (
	"fmt"
	"io"
	"log"

	"karite-storefront/internal/domain"
)

// Sink receives mutation outcomes for presentation.
type Sink interface {
	Notify(o domain.Outcome)
}

// LogSink writes rendered notifications to the application logger.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(o domain.Outcome) {
	if msg := Message(o); msg != "" {
		s.logger.Printf("notify kind=%s message=%q", o.Kind, msg)
	}
}

// Message renders an outcome as user-facing text. Silent outcomes render
// as the empty string.
func Message(o domain.Outcome) string {
	switch o.Kind {
	case domain.OutcomeAdded:
		if o.Quantity > 1 {
			return fmt.Sprintf("%s (x%d) added to cart", o.ProductName, o.Quantity)
		}
		return fmt.Sprintf("%s added to cart", o.ProductName)
	case domain.OutcomeRemoved:
		return fmt.Sprintf("%s removed from cart", o.ProductName)
	case domain.OutcomeQuantityUpdated:
		return fmt.Sprintf("%s quantity set to %d", o.ProductName, o.Quantity)
	case domain.OutcomeStockInsufficient:
		return fmt.Sprintf("only %d of %s available", o.Available, o.ProductName)
	case domain.OutcomeDeliverySelected:
		if o.PriceCents == 0 {
			return fmt.Sprintf("%s selected (free)", o.OptionName)
		}
		return fmt.Sprintf("%s selected (+%s)", o.OptionName, FormatCents(o.PriceCents))
	case domain.OutcomeCleared:
		return fmt.Sprintf("cart cleared (%d items)", o.Count)
	}
	return ""
}

// FormatCents renders a cent amount as a decimal string.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
