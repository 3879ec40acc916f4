package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

func TestClient_Products_AdaptsFirstVariant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"products":{"edges":[
			{"node":{
				"id":"gid://product/1","title":"Classic Tee","description":"Soft cotton",
				"featuredImage":{"url":"https://cdn.example/1.jpg"},
				"variants":{"edges":[{"node":{
					"id":"gid://variant/1",
					"price":{"amount":"19.99"},
					"compareAtPrice":{"amount":"29.99"}
				}}]}
			}},
			{"node":{
				"id":"gid://product/2","title":"Socks","description":"",
				"featuredImage":null,
				"variants":{"edges":[{"node":{
					"id":"gid://variant/2",
					"price":{"amount":"5.00"},
					"compareAtPrice":null
				}}]}
			}}
		]}}}`))
	})

	items, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "gid://product/1", first.ID)
	assert.Equal(t, "gid://variant/1", first.VariantID)
	assert.Equal(t, "Classic Tee", first.Title)
	assert.Equal(t, "https://cdn.example/1.jpg", first.ImageURL)
	assert.Equal(t, int64(1999), first.Price)
	require.NotNil(t, first.CompareAtPrice)
	assert.Equal(t, int64(2999), *first.CompareAtPrice)

	second := items[1]
	assert.Equal(t, int64(500), second.Price)
	assert.Nil(t, second.CompareAtPrice)
}

func TestClient_Product_MissingIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"product":null}}`))
	})

	item, err := client.Product(context.Background(), "gid://product/gone")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestClient_Products_HTTPFailureIsTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Products(context.Background())
	require.Error(t, err)
	assert.True(t, cart.IsTransport(err))
}
