// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/events"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	service cart.Service
	bus     *events.Bus
	logger  *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service cart.Service, bus *events.Bus, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		bus:     bus,
		logger:  logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	snapshot, err := h.service.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    snapshot,
	})
}

// GetCartCount handles GET /cart/count, the badge counter read
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	count, err := h.service.Count(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"total_quantity": count},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	var req cart.AddLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.AddLine(c.Request.Context(), sessionID, req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	lineID := c.Param("id")

	var req struct {
		Quantity int `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.service.UpdateLineQuantity(c.Request.Context(), sessionID, lineID, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	lineID := c.Param("id")

	if err := h.service.RemoveLine(c.Request.Context(), sessionID, lineID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed successfully",
	})
}

// Checkout handles POST /cart/checkout. The response carries the
// hand-off URL; the cart is already cleared by the time it returns.
func (h *CartHandler) Checkout(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	url, err := h.service.Checkout(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout started",
		"data":    gin.H{"checkout_url": url},
	})
}

// OpenDrawer handles POST /cart/open-drawer
func (h *CartHandler) OpenDrawer(c *gin.Context) {
	h.bus.Publish(events.RequestOpenDrawer)
	c.JSON(http.StatusOK, gin.H{
		"message": "Drawer requested",
	})
}

// Events handles GET /cart/events, streaming cart signals over SSE so
// UI surfaces (badge, drawer) refresh without polling. Events carry no
// payload; consumers re-read the cart on each signal.
func (h *CartHandler) Events(c *gin.Context) {
	signals := make(chan events.Kind, 8)

	forward := func(kind events.Kind) {
		select {
		case signals <- kind:
		default:
			// Slow consumer; it re-reads full state on the next
			// signal anyway, dropping is safe.
		}
	}

	unsubscribeChanged := h.bus.Subscribe(events.CartChanged, forward)
	unsubscribeDrawer := h.bus.Subscribe(events.RequestOpenDrawer, forward)
	defer unsubscribeChanged()
	defer unsubscribeDrawer()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case kind := <-signals:
			c.SSEvent(kind.String(), "")
			return true
		}
	})
}

// respondError maps the cart error taxonomy onto HTTP statuses
func (h *CartHandler) respondError(c *gin.Context, err error) {
	var ve *cart.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, cart.ErrNothingToCheckout):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty, nothing to check out"})
	case errors.Is(err, cart.ErrCartOperationFailed):
		h.logger.WithError(err).Error("cart operation failed after retry")
		c.JSON(http.StatusConflict, gin.H{"error": "Cart operation failed, please try again"})
	case cart.IsTransport(err):
		h.logger.WithError(err).Warn("cart service unreachable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Cart service unavailable, please try again"})
	default:
		h.logger.WithError(err).Error("cart request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
