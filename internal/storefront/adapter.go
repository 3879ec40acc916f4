// internal/storefront/adapter.go
package storefront

import (
	"fmt"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/pricing"
)

// adaptCart translates the raw cart payload into the normalized read
// model. This is the only place the remote line shape is interpreted;
// everything downstream sees cart.Line.
func adaptCart(payload *cartPayload) (*cart.RemoteCart, error) {
	lines := make([]cart.Line, 0, len(payload.Lines.Edges))
	for _, edge := range payload.Lines.Edges {
		line, err := adaptLine(edge.Node)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return &cart.RemoteCart{
		ID:            payload.ID,
		CheckoutURL:   payload.CheckoutURL,
		TotalQuantity: payload.TotalQuantity,
		Lines:         lines,
	}, nil
}

func adaptLine(node linePayload) (cart.Line, error) {
	unitPrice, err := pricing.ParseAmount(node.Merchandise.Price.Amount)
	if err != nil {
		return cart.Line{}, fmt.Errorf("line %s: invalid price: %w", node.ID, err)
	}

	var original *int64
	if node.Merchandise.CompareAtPrice != nil {
		amount, err := pricing.ParseAmount(node.Merchandise.CompareAtPrice.Amount)
		if err != nil {
			return cart.Line{}, fmt.Errorf("line %s: invalid compare-at price: %w", node.ID, err)
		}
		original = &amount
	}

	line := cart.Line{
		ID:                node.ID,
		MerchandiseID:     node.Merchandise.ID,
		Title:             node.Merchandise.Title,
		UnitPrice:         unitPrice,
		OriginalUnitPrice: original,
		Quantity:          node.Quantity,
	}
	if node.Merchandise.Image != nil {
		line.ImageURL = node.Merchandise.Image.URL
	}
	if node.Merchandise.Product != nil {
		line.ProductTitle = node.Merchandise.Product.Title
	}

	return line, nil
}
