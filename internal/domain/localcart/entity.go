// internal/domain/localcart/entity.go
package localcart

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

// Item is one stored cart line for the local variant, used when no
// remote cart service is configured. Prices are minor currency units;
// formatted price strings are normalized before a row is ever written.
type Item struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	SessionID         string         `gorm:"not null;index" json:"session_id"`
	ItemID            string         `gorm:"not null;index" json:"item_id"`
	Name              string         `gorm:"not null" json:"name"`
	ImageURL          string         `json:"image_url"`
	UnitPrice         int64          `gorm:"not null" json:"unit_price"`
	OriginalUnitPrice *int64         `json:"original_unit_price"`
	Quantity          int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "local_cart_items"
}

// toLines maps stored rows into the normalized read model, preserving
// insertion order.
func toLines(items []Item) []cart.Line {
	lines := make([]cart.Line, len(items))
	for i, item := range items {
		lines[i] = cart.Line{
			ID:                item.ItemID,
			MerchandiseID:     item.ItemID,
			Title:             item.Name,
			ImageURL:          item.ImageURL,
			UnitPrice:         item.UnitPrice,
			OriginalUnitPrice: item.OriginalUnitPrice,
			Quantity:          item.Quantity,
		}
	}
	return lines
}
