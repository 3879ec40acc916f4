package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-cart/internal/domain/cart"
)

func snapshotWithLines() *cart.Snapshot {
	original := int64(1500)
	return cart.BuildSnapshot([]cart.Line{
		{ID: "line-1", Title: "Classic Tee", UnitPrice: 1000, OriginalUnitPrice: &original, Quantity: 2},
		{ID: "line-2", Title: "Socks", UnitPrice: 500, Quantity: 1},
	}, "")
}

func TestHostedHandOff(t *testing.T) {
	url, err := HostedHandOff("https://shop.example/checkout/abc", snapshotWithLines())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/checkout/abc", url)
}

func TestHostedHandOff_EmptyCart(t *testing.T) {
	_, err := HostedHandOff("https://shop.example/checkout/abc", cart.EmptySnapshot())
	assert.ErrorIs(t, err, cart.ErrNothingToCheckout)
}

func TestHostedHandOff_MissingURL(t *testing.T) {
	_, err := HostedHandOff("", snapshotWithLines())
	assert.ErrorIs(t, err, cart.ErrNothingToCheckout)
}

func TestWhatsAppHandOff(t *testing.T) {
	raw, err := WhatsAppHandOff("5491122334455", "La Tienda", snapshotWithLines())
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.True(t, strings.HasPrefix(parsed.Path, "/5491122334455"))

	text := parsed.Query().Get("text")
	assert.Contains(t, text, "La Tienda")
	assert.Contains(t, text, "2x Classic Tee")
	assert.Contains(t, text, "Total: 25.00")
	assert.Contains(t, text, "you save 10.00")
}

func TestWhatsAppHandOff_EmptyCart(t *testing.T) {
	_, err := WhatsAppHandOff("5491122334455", "La Tienda", cart.EmptySnapshot())
	assert.ErrorIs(t, err, cart.ErrNothingToCheckout)
}

func TestWhatsAppHandOff_NoNumberConfigured(t *testing.T) {
	_, err := WhatsAppHandOff("", "La Tienda", snapshotWithLines())
	require.Error(t, err)

	var ve *cart.ValidationError
	assert.ErrorAs(t, err, &ve)
}
