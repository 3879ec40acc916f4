// internal/domain/localcart/service.go
package localcart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/checkout"
	"github.com/your-org/storefront-cart/internal/domain/pricing"
	"github.com/your-org/storefront-cart/internal/events"
)

// Service is the storage-only cart variant, used when no remote cart
// service is configured. Items live in the database per session; there
// is no handle lifecycle because there is no remote resource to point
// at. Checkout hands the order summary off to WhatsApp.
type Service struct {
	repo           Repository
	bus            *events.Bus
	logger         *logrus.Logger
	whatsAppNumber string
	storeName      string
}

// NewService creates the local cart service
func NewService(repo Repository, bus *events.Bus, logger *logrus.Logger, whatsAppNumber, storeName string) *Service {
	return &Service{
		repo:           repo,
		bus:            bus,
		logger:         logger,
		whatsAppNumber: whatsAppNumber,
		storeName:      storeName,
	}
}

var _ cart.Service = (*Service)(nil)

// Snapshot reads the session's stored items and recomputes the totals
func (s *Service) Snapshot(ctx context.Context, sessionID string) (*cart.Snapshot, error) {
	items, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}
	return cart.BuildSnapshot(toLines(items), ""), nil
}

// Count returns the aggregate quantity for the badge counter
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	snapshot, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalQuantity, nil
}

// AddLine stores a new item or merges the quantity into an existing
// one. Prices arrive as strings, possibly currency-formatted, and are
// normalized to minor units before the row is written.
func (s *Service) AddLine(ctx context.Context, sessionID string, input cart.AddLineInput) error {
	if input.MerchandiseID == "" {
		return &cart.ValidationError{Message: "item id is required"}
	}
	if input.Quantity < 1 {
		return &cart.ValidationError{Message: "quantity must be at least 1"}
	}

	unitPrice, err := pricing.ParseAmount(input.Price)
	if err != nil {
		return &cart.ValidationError{Message: fmt.Sprintf("invalid price: %v", err)}
	}

	var originalPrice *int64
	if input.OriginalPrice != "" {
		amount, err := pricing.ParseAmount(input.OriginalPrice)
		if err != nil {
			return &cart.ValidationError{Message: fmt.Sprintf("invalid original price: %v", err)}
		}
		originalPrice = &amount
	}

	existing, err := s.repo.Find(ctx, sessionID, input.MerchandiseID)
	if err != nil {
		return fmt.Errorf("failed to read cart item: %w", err)
	}

	if existing == nil {
		item := Item{
			SessionID:         sessionID,
			ItemID:            input.MerchandiseID,
			Name:              input.Name,
			ImageURL:          input.ImageURL,
			UnitPrice:         unitPrice,
			OriginalUnitPrice: originalPrice,
			Quantity:          input.Quantity,
		}
		if err := s.repo.Create(ctx, &item); err != nil {
			return fmt.Errorf("failed to store cart item: %w", err)
		}
	} else {
		existing.Quantity += input.Quantity
		existing.UnitPrice = unitPrice // Price may have changed since first add
		if originalPrice != nil {
			// A re-add without a compare-at price must not erase the
			// recorded one, that would zero the line's savings.
			existing.OriginalUnitPrice = originalPrice
		}
		if err := s.repo.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	s.bus.Publish(events.CartChanged)
	s.bus.Publish(events.RequestOpenDrawer)
	return nil
}

// UpdateLineQuantity sets an item's quantity; zero or less removes it
func (s *Service) UpdateLineQuantity(ctx context.Context, sessionID, lineID string, quantity int) error {
	if lineID == "" {
		return &cart.ValidationError{Message: "item id is required"}
	}
	if quantity <= 0 {
		return s.RemoveLine(ctx, sessionID, lineID)
	}

	existing, err := s.repo.Find(ctx, sessionID, lineID)
	if err != nil {
		return fmt.Errorf("failed to read cart item: %w", err)
	}
	if existing != nil {
		existing.Quantity = quantity
		if err := s.repo.Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	s.bus.Publish(events.CartChanged)
	return nil
}

// RemoveLine deletes an item. Removing an item that is already gone
// is a no-op, not an error.
func (s *Service) RemoveLine(ctx context.Context, sessionID, lineID string) error {
	if lineID == "" {
		return &cart.ValidationError{Message: "item id is required"}
	}

	if err := s.repo.Delete(ctx, sessionID, lineID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.bus.Publish(events.CartChanged)
	return nil
}

// Checkout builds the WhatsApp hand-off URL and clears the session's
// cart, mirroring the remote variant's single-use checkout semantics.
func (s *Service) Checkout(ctx context.Context, sessionID string) (string, error) {
	snapshot, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return "", err
	}

	url, err := checkout.WhatsAppHandOff(s.whatsAppNumber, s.storeName, snapshot)
	if err != nil {
		return "", err
	}

	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	s.logger.WithField("session_id", sessionID).Info("handed cart off to checkout")
	s.bus.Publish(events.CartChanged)
	return url, nil
}
