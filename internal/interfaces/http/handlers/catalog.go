// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/catalog"
)

// CatalogHandler exposes the catalog read-through endpoints
type CatalogHandler struct {
	catalog catalog.QueryService
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(queryService catalog.QueryService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: queryService,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	items, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	item, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": item,
	})
}

func (h *CatalogHandler) respondError(c *gin.Context, err error) {
	if cart.IsTransport(err) {
		h.logger.WithError(err).Warn("catalog service unreachable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog service unavailable, please try again"})
		return
	}

	h.logger.WithError(err).Error("catalog request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
