// internal/domain/cart/engine.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/events"
)

// Engine synchronizes a session's persisted cart handle with the
// remote cart resource it references.
//
// Handle lifecycle per session: no cart -> created on first add ->
// valid while remote reads succeed -> invalid when the remote rejects
// it (expired, consumed at checkout), at which point the handle is
// cleared and the cart reads as empty.
//
// On a domain-level rejection that flags the handle as unusable, the
// engine clears the stale handle and retries the same logical
// operation exactly once against a freshly created cart. A second
// domain failure surfaces as ErrCartOperationFailed. Transport
// failures are never retried; the caller owns user-facing retry.
type Engine struct {
	gateway Gateway
	handles HandleStore
	bus     *events.Bus
	logger  *logrus.Logger
}

// NewEngine creates a cart synchronization engine
func NewEngine(gateway Gateway, handles HandleStore, bus *events.Bus, logger *logrus.Logger) *Engine {
	return &Engine{
		gateway: gateway,
		handles: handles,
		bus:     bus,
		logger:  logger,
	}
}

var _ Service = (*Engine)(nil)

// Snapshot reads the current cart state. An absent handle yields an
// empty snapshot with no network call. A remote "cart missing" answer
// invalidates the handle and also yields an empty snapshot.
func (e *Engine) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	handle, err := e.handles.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if handle == "" {
		return EmptySnapshot(), nil
	}

	remote, err := e.gateway.FetchCart(ctx, handle)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		// Remote reports the cart as gone; the handle is stale.
		e.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"handle":     handle,
		}).Info("remote cart expired, clearing handle")
		if err := e.handles.Clear(ctx, sessionID); err != nil {
			return nil, err
		}
		return EmptySnapshot(), nil
	}

	return BuildSnapshot(remote.Lines, remote.CheckoutURL), nil
}

// Count returns the aggregate quantity for the badge counter
func (e *Engine) Count(ctx context.Context, sessionID string) (int, error) {
	snapshot, err := e.Snapshot(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return snapshot.TotalQuantity, nil
}

// AddLine adds merchandise to the session's cart, creating the remote
// cart first if the session has none yet.
func (e *Engine) AddLine(ctx context.Context, sessionID string, input AddLineInput) error {
	if input.MerchandiseID == "" {
		return &ValidationError{Message: "merchandise id is required"}
	}
	if input.Quantity < 1 {
		return &ValidationError{Message: "quantity must be at least 1"}
	}

	handle, err := e.handles.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	if handle == "" {
		handle, err = e.createAndPersist(ctx, sessionID)
		if err != nil {
			return err
		}
	}

	err = e.gateway.AddLine(ctx, handle, input.MerchandiseID, input.Quantity)
	if isInvalidHandle(err) {
		// Stale handle: recreate and retry the same operation once.
		e.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"handle":     handle,
		}).Warn("remote rejected cart handle, recreating cart")

		if clearErr := e.handles.Clear(ctx, sessionID); clearErr != nil {
			return clearErr
		}
		handle, err = e.createAndPersist(ctx, sessionID)
		if err != nil {
			return err
		}

		err = e.gateway.AddLine(ctx, handle, input.MerchandiseID, input.Quantity)
		if IsDomainRejection(err) {
			// Retry exhausted. Roll back to no cart at all.
			if clearErr := e.handles.Clear(ctx, sessionID); clearErr != nil {
				e.logger.WithError(clearErr).Error("failed to clear handle after terminal rejection")
			}
			return fmt.Errorf("%w: %v", ErrCartOperationFailed, err)
		}
	}
	if err != nil {
		return err
	}

	e.bus.Publish(events.CartChanged)
	e.bus.Publish(events.RequestOpenDrawer)
	return nil
}

// UpdateLineQuantity sets a line's quantity. A quantity of zero or
// less is a removal, never a zero-quantity line.
func (e *Engine) UpdateLineQuantity(ctx context.Context, sessionID, lineID string, quantity int) error {
	if lineID == "" {
		return &ValidationError{Message: "line id is required"}
	}
	if quantity <= 0 {
		return e.RemoveLine(ctx, sessionID, lineID)
	}

	handle, err := e.handles.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if handle == "" {
		// No cart means no such line; same observable outcome as
		// removing a line that is already gone.
		return &ValidationError{Message: "cart is empty"}
	}

	err = e.gateway.UpdateLineQuantity(ctx, handle, lineID, quantity)
	if isInvalidHandle(err) {
		// The cart behind the handle is gone, and with it the line.
		// Clearing the handle makes the local view consistent; there
		// is nothing to retry against a fresh empty cart.
		return e.invalidateAndNotify(ctx, sessionID, handle)
	}
	if err != nil {
		return err
	}

	e.bus.Publish(events.CartChanged)
	return nil
}

// RemoveLine removes a line from the session's cart. Removing a line
// that is already gone is a no-op, not an error.
func (e *Engine) RemoveLine(ctx context.Context, sessionID, lineID string) error {
	if lineID == "" {
		return &ValidationError{Message: "line id is required"}
	}

	handle, err := e.handles.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if handle == "" {
		return nil
	}

	err = e.gateway.RemoveLine(ctx, handle, lineID)
	if isInvalidHandle(err) {
		return e.invalidateAndNotify(ctx, sessionID, handle)
	}
	if err != nil {
		return err
	}

	e.bus.Publish(events.CartChanged)
	return nil
}

// Checkout returns the remote checkout URL and clears the persisted
// handle before the caller navigates away: the remote cart becomes
// single-use once checkout begins, so further mutations must start a
// fresh cart.
func (e *Engine) Checkout(ctx context.Context, sessionID string) (string, error) {
	snapshot, err := e.Snapshot(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(snapshot.Lines) == 0 {
		return "", ErrNothingToCheckout
	}
	if snapshot.CheckoutURL == "" {
		return "", ErrNothingToCheckout
	}

	if err := e.handles.Clear(ctx, sessionID); err != nil {
		return "", err
	}

	e.bus.Publish(events.CartChanged)
	return snapshot.CheckoutURL, nil
}

func (e *Engine) createAndPersist(ctx context.Context, sessionID string) (string, error) {
	handle, _, err := e.gateway.CreateCart(ctx)
	if err != nil {
		return "", err
	}
	if err := e.handles.Set(ctx, sessionID, handle); err != nil {
		return "", err
	}

	e.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"handle":     handle,
	}).Info("created remote cart")

	return handle, nil
}

func (e *Engine) invalidateAndNotify(ctx context.Context, sessionID, handle string) error {
	e.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"handle":     handle,
	}).Warn("remote rejected cart handle, treating cart as empty")

	if err := e.handles.Clear(ctx, sessionID); err != nil {
		return err
	}
	e.bus.Publish(events.CartChanged)
	return nil
}
