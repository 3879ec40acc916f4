// internal/domain/cart/entity.go
package cart

import (
	"context"

	"github.com/your-org/storefront-cart/internal/domain/pricing"
)

// Line is the normalized cart line every data source is adapted into.
// Prices are minor currency units. OriginalUnitPrice is nil when the
// source has no compare-at price for the merchandise.
type Line struct {
	ID                string `json:"id"`
	MerchandiseID     string `json:"merchandise_id"`
	Title             string `json:"title"`
	ProductTitle      string `json:"product_title,omitempty"`
	ImageURL          string `json:"image_url,omitempty"`
	UnitPrice         int64  `json:"unit_price"`
	OriginalUnitPrice *int64 `json:"original_unit_price,omitempty"`
	Quantity          int    `json:"quantity"`
}

// PricingLine converts the line into the calculator's input shape
func (l Line) PricingLine() pricing.Line {
	return pricing.Line{
		UnitPrice:         l.UnitPrice,
		OriginalUnitPrice: l.OriginalUnitPrice,
		Quantity:          l.Quantity,
	}
}

// Snapshot is the read model the UI observes. It is recomputed
// wholesale from the underlying lines on every read, never patched
// incrementally.
type Snapshot struct {
	Lines         []Line         `json:"lines"`
	TotalQuantity int            `json:"total_quantity"`
	Totals        pricing.Totals `json:"totals"`
	CheckoutURL   string         `json:"checkout_url,omitempty"`
}

// EmptySnapshot returns the snapshot of a cart that does not exist
func EmptySnapshot() *Snapshot {
	return &Snapshot{Lines: []Line{}}
}

// BuildSnapshot derives a consistent snapshot from a line set
func BuildSnapshot(lines []Line, checkoutURL string) *Snapshot {
	if lines == nil {
		lines = []Line{}
	}

	totalQuantity := 0
	pricingLines := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		totalQuantity += line.Quantity
		pricingLines = append(pricingLines, line.PricingLine())
	}

	return &Snapshot{
		Lines:         lines,
		TotalQuantity: totalQuantity,
		Totals:        pricing.Compute(pricingLines),
		CheckoutURL:   checkoutURL,
	}
}

// AddLineInput carries everything a cart backend may need to add a
// line. The remote engine only uses MerchandiseID and Quantity; the
// local variant also stores the display fields and normalizes the
// price strings before persisting.
type AddLineInput struct {
	MerchandiseID string `json:"merchandise_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`

	// Local-variant display fields, ignored by the remote engine.
	// Prices may arrive currency-formatted ("$1,234.50").
	Name          string `json:"name"`
	ImageURL      string `json:"image_url"`
	Price         string `json:"price"`
	OriginalPrice string `json:"original_price"`
}

// Service is the cart contract the HTTP layer consumes. The remote
// Engine and the local-cart variant both implement it.
type Service interface {
	Snapshot(ctx context.Context, sessionID string) (*Snapshot, error)
	Count(ctx context.Context, sessionID string) (int, error)
	AddLine(ctx context.Context, sessionID string, input AddLineInput) error
	UpdateLineQuantity(ctx context.Context, sessionID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, sessionID, lineID string) error
	Checkout(ctx context.Context, sessionID string) (string, error)
}

// RemoteCart is the raw read of a remote cart resource
type RemoteCart struct {
	ID            string
	CheckoutURL   string
	TotalQuantity int
	Lines         []Line
}

// Gateway is the typed surface of the remote cart service. FetchCart
// returns (nil, nil) when the remote reports the cart as missing or
// expired; that is how expiry surfaces, not as an error. Gateways
// classify failures as *TransportError or *DomainRejection.
type Gateway interface {
	CreateCart(ctx context.Context) (id string, checkoutURL string, err error)
	FetchCart(ctx context.Context, id string) (*RemoteCart, error)
	AddLine(ctx context.Context, id, merchandiseID string, quantity int) error
	UpdateLineQuantity(ctx context.Context, id, lineID string, quantity int) error
	RemoveLine(ctx context.Context, id, lineID string) error
}
