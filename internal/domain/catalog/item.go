// internal/domain/catalog/item.go
package catalog

import (
	"context"

	"github.com/your-org/storefront-cart/internal/domain/pricing"
)

// The catalog itself is an external collaborator; this package only
// pins down the one normalized shape the rest of the service consumes,
// so that source-specific field drift stays behind the adapters.

// Item is the normalized catalog entry. Prices are minor currency
// units; CompareAtPrice is nil when the source has no original price.
type Item struct {
	ID             string `json:"id"`
	VariantID      string `json:"variant_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Price          int64  `json:"price"`
	CompareAtPrice *int64 `json:"compare_at_price,omitempty"`
}

// QueryService is the remote catalog contract. Retrieval, filtering
// and sorting live behind it; this package never implements them.
// Product returns (nil, nil) when no such product exists.
type QueryService interface {
	Products(ctx context.Context) ([]Item, error)
	Product(ctx context.Context, id string) (*Item, error)
}

// SourceProduct is the duck-typed product shape external sources
// deliver: prices as strings (sometimes currency-formatted), optional
// compare-at price, variant id optional for single-variant products.
type SourceProduct struct {
	ID             string
	VariantID      string
	Title          string
	Description    string
	ImageURL       string
	Price          string
	CompareAtPrice string
}

// Normalize adapts a source product into the normalized Item. This is
// the only place a source's price strings are interpreted.
func Normalize(p SourceProduct) (Item, error) {
	price, err := pricing.ParseAmount(p.Price)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:          p.ID,
		VariantID:   p.VariantID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       price,
	}
	if item.VariantID == "" {
		item.VariantID = p.ID
	}

	if p.CompareAtPrice != "" {
		compareAt, err := pricing.ParseAmount(p.CompareAtPrice)
		if err != nil {
			return Item{}, err
		}
		item.CompareAtPrice = &compareAt
	}

	return item, nil
}
