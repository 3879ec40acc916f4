// internal/storefront/client.go
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
)

// Client is the remote cart gateway over the Storefront GraphQL API.
// It classifies every failure as either cart.TransportError (service
// unreachable, HTTP or GraphQL-level failure) or cart.DomainRejection
// (the service processed the request and answered with userErrors).
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewClient creates a storefront gateway from config
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		endpoint:    cfg.Storefront.Endpoint,
		accessToken: cfg.Storefront.AccessToken,
		httpClient: &http.Client{
			Timeout: cfg.Storefront.APITimeout,
		},
		logger: logger,
	}
}

var _ cart.Gateway = (*Client)(nil)

// CreateCart creates a fresh remote cart. Callers must only invoke it
// when no valid handle exists; a created cart that is never persisted
// is orphaned on the remote side.
func (c *Client) CreateCart(ctx context.Context) (string, string, error) {
	const op = "create_cart"

	var data struct {
		CartCreate mutationPayload `json:"cartCreate"`
	}
	if err := c.post(ctx, op, createCartMutation, nil, &data); err != nil {
		return "", "", err
	}
	if err := classifyUserErrors(op, data.CartCreate.UserErrors); err != nil {
		return "", "", err
	}
	if data.CartCreate.Cart == nil || data.CartCreate.Cart.ID == "" {
		return "", "", &cart.TransportError{Op: op, Err: fmt.Errorf("no cart in response")}
	}

	c.logger.WithField("handle", data.CartCreate.Cart.ID).Debug("created remote cart")
	return data.CartCreate.Cart.ID, data.CartCreate.Cart.CheckoutURL, nil
}

// FetchCart reads the cart behind the handle. A remote answer of
// "no such cart" returns (nil, nil): that is how expiry surfaces,
// the service has no separate expired status.
func (c *Client) FetchCart(ctx context.Context, id string) (*cart.RemoteCart, error) {
	const op = "fetch_cart"

	var data struct {
		Cart *cartPayload `json:"cart"`
	}
	vars := map[string]interface{}{"cartId": id}
	if err := c.post(ctx, op, fetchCartQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, nil
	}

	return adaptCart(data.Cart)
}

// AddLine adds merchandise to the remote cart
func (c *Client) AddLine(ctx context.Context, id, merchandiseID string, quantity int) error {
	const op = "add_line"

	var data struct {
		CartLinesAdd mutationPayload `json:"cartLinesAdd"`
	}
	vars := map[string]interface{}{
		"cartId": id,
		"lines": []map[string]interface{}{
			{"merchandiseId": merchandiseID, "quantity": quantity},
		},
	}
	if err := c.post(ctx, op, addLinesMutation, vars, &data); err != nil {
		return err
	}
	return classifyUserErrors(op, data.CartLinesAdd.UserErrors)
}

// UpdateLineQuantity sets a line's quantity. Quantity must be positive;
// translating zero into a removal is the caller's job.
func (c *Client) UpdateLineQuantity(ctx context.Context, id, lineID string, quantity int) error {
	const op = "update_line"

	if quantity < 1 {
		return &cart.ValidationError{Message: "quantity must be a positive integer"}
	}

	var data struct {
		CartLinesUpdate mutationPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]interface{}{
		"cartId": id,
		"lines": []map[string]interface{}{
			{"id": lineID, "quantity": quantity},
		},
	}
	if err := c.post(ctx, op, updateLinesMutation, vars, &data); err != nil {
		return err
	}
	return classifyUserErrors(op, data.CartLinesUpdate.UserErrors)
}

// RemoveLine removes a line from the remote cart
func (c *Client) RemoveLine(ctx context.Context, id, lineID string) error {
	const op = "remove_line"

	var data struct {
		CartLinesRemove mutationPayload `json:"cartLinesRemove"`
	}
	vars := map[string]interface{}{
		"cartId":  id,
		"lineIds": []string{lineID},
	}
	if err := c.post(ctx, op, removeLinesMutation, vars, &data); err != nil {
		return err
	}
	return classifyUserErrors(op, data.CartLinesRemove.UserErrors)
}

// post executes one GraphQL request and decodes the data envelope
func (c *Client) post(ctx context.Context, op, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &cart.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &cart.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &cart.TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return &cart.TransportError{Op: op, Err: fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &cart.TransportError{Op: op, Err: fmt.Errorf("failed to decode %s payload: %w", op, err)}
	}
	return nil
}

// classifyUserErrors turns a non-empty userErrors list into a domain
// rejection, flagging the ones that blame the cart id itself.
func classifyUserErrors(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}

	rejection := &cart.DomainRejection{Op: op}
	for _, e := range errs {
		rejection.Messages = append(rejection.Messages, e.Message)
		if userErrorBlamesCart(e) {
			rejection.InvalidHandle = true
		}
	}
	return rejection
}

func userErrorBlamesCart(e userError) bool {
	for _, f := range e.Field {
		if f == "cartId" {
			return true
		}
	}
	msg := strings.ToLower(e.Message)
	if !strings.Contains(msg, "cart") {
		return false
	}
	return strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "expired") ||
		strings.Contains(msg, "not exist") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "completed")
}
