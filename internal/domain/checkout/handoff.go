// internal/domain/checkout/handoff.go
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/pricing"
)

// Checkout is a one-way hand-off: the cart subsystem produces a
// destination URL, the client navigates there, and what happens next
// (payment, order creation) is out of our hands.

// HostedHandOff validates and returns the remote-provided checkout URL
func HostedHandOff(checkoutURL string, snapshot *cart.Snapshot) (string, error) {
	if snapshot == nil || len(snapshot.Lines) == 0 {
		return "", cart.ErrNothingToCheckout
	}
	if checkoutURL == "" {
		return "", cart.ErrNothingToCheckout
	}
	if _, err := url.ParseRequestURI(checkoutURL); err != nil {
		return "", &cart.ValidationError{Message: fmt.Sprintf("invalid checkout url: %v", err)}
	}
	return checkoutURL, nil
}

// WhatsAppHandOff builds a wa.me URL carrying the order summary for
// the local cart variant, where no hosted checkout exists.
func WhatsAppHandOff(number, storeName string, snapshot *cart.Snapshot) (string, error) {
	if snapshot == nil || len(snapshot.Lines) == 0 {
		return "", cart.ErrNothingToCheckout
	}
	if number == "" {
		return "", &cart.ValidationError{Message: "no checkout destination configured"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I would like to order from %s:\n", storeName)
	for _, line := range snapshot.Lines {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", line.Quantity, line.Title, pricing.FormatAmount(line.UnitPrice))
	}
	fmt.Fprintf(&b, "Total: %s", pricing.FormatAmount(snapshot.Totals.TotalFinal))
	if snapshot.Totals.TotalSavings > 0 {
		fmt.Fprintf(&b, " (you save %s)", pricing.FormatAmount(snapshot.Totals.TotalSavings))
	}

	query := url.Values{}
	query.Set("text", b.String())
	return fmt.Sprintf("https://wa.me/%s?%s", url.PathEscape(number), query.Encode()), nil
}
