// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/domain/catalog"
	"github.com/your-org/storefront-cart/internal/events"
	"github.com/your-org/storefront-cart/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-cart/internal/pkg/session"
)

// SetupRoutes wires all API routes. The catalog group only exists when
// a catalog source is configured (the local cart variant has none).
func SetupRoutes(rg *gin.RouterGroup, service cart.Service, catalogService catalog.QueryService, bus *events.Bus, cfg *config.Config, logger *logrus.Logger) {
	sessionManager := session.NewManager(cfg)
	cartHandler := handlers.NewCartHandler(service, bus, logger)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.Session(cfg, sessionManager))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)
		cartGroup.GET("/events", cartHandler.Events)

		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)

		cartGroup.POST("/checkout", cartHandler.Checkout)
		cartGroup.POST("/open-drawer", cartHandler.OpenDrawer)
	}

	if catalogService != nil {
		catalogHandler := handlers.NewCatalogHandler(catalogService, logger)

		productGroup := rg.Group("/products")
		{
			productGroup.GET("", catalogHandler.ListProducts)
			productGroup.GET("/:id", catalogHandler.GetProduct)
		}
	}
}
