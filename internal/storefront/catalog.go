// internal/storefront/catalog.go
package storefront

import (
	"context"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/catalog"
)

// The gateway doubles as the catalog read-through: product listings
// come from the same Storefront API the cart lives in.

var _ catalog.QueryService = (*Client)(nil)

const productPageSize = 50

// Products lists the first page of the storefront catalog
func (c *Client) Products(ctx context.Context) ([]catalog.Item, error) {
	const op = "list_products"

	var data struct {
		Products struct {
			Edges []struct {
				Node productNodePayload `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	vars := map[string]interface{}{"first": productPageSize}
	if err := c.post(ctx, op, listProductsQuery, vars, &data); err != nil {
		return nil, err
	}

	items := make([]catalog.Item, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		item, err := adaptProduct(edge.Node)
		if err != nil {
			return nil, &cart.TransportError{Op: op, Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

// Product fetches one catalog entry, (nil, nil) when it does not exist
func (c *Client) Product(ctx context.Context, id string) (*catalog.Item, error) {
	const op = "fetch_product"

	var data struct {
		Product *productNodePayload `json:"product"`
	}
	vars := map[string]interface{}{"id": id}
	if err := c.post(ctx, op, fetchProductQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, nil
	}

	item, err := adaptProduct(*data.Product)
	if err != nil {
		return nil, &cart.TransportError{Op: op, Err: err}
	}
	return &item, nil
}

// adaptProduct flattens the first variant into the normalized shape.
// Drawer-driven storefronts sell single-variant products; deeper
// variant selection happens on the hosted product page, not here.
func adaptProduct(p productNodePayload) (catalog.Item, error) {
	source := catalog.SourceProduct{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
	}
	if p.FeaturedImage != nil {
		source.ImageURL = p.FeaturedImage.URL
	}
	if len(p.Variants.Edges) > 0 {
		variant := p.Variants.Edges[0].Node
		source.VariantID = variant.ID
		source.Price = variant.Price.Amount
		if variant.CompareAtPrice != nil {
			source.CompareAtPrice = variant.CompareAtPrice.Amount
		}
	}
	return catalog.Normalize(source)
}
