// Package orders is the HTTP client for the food-ordering subsystem. The
// dispatch flow uses it to fetch delivery addresses and to flag orders as
// fulfilled after hand-off.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/errs"
)

// Client implements ports.OrderServiceClient against the order service's
// REST API.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates an order service client. authToken may be empty; when
// set it is sent as a bearer token on every request.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// orderResponse is the subset of the order document this module consumes.
type orderResponse struct {
	ID              string `json:"id"`
	DeliveryAddress string `json:"delivery_address"`
}

// GetDeliveryAddress fetches the delivery address recorded on an order.
// Returns an ObjectNotFoundError when the order does not exist.
func (c *Client) GetDeliveryAddress(ctx context.Context, orderID kernel.UUID) (string, error) {
	endpoint := fmt.Sprintf("%s/orders/%s", c.baseURL, orderID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errs.NewExternalLookupError("order service", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errs.NewObjectNotFoundError("order", orderID.String())
	case resp.StatusCode != http.StatusOK:
		return "", errs.NewExternalLookupError("order service",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var order orderResponse
	if err = json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", errs.NewExternalLookupError("order service", err)
	}
	return order.DeliveryAddress, nil
}

// MarkFulfilled flags the order as fulfilled. The caller treats failures as
// best-effort, but the client still reports them so they can be logged.
func (c *Client) MarkFulfilled(ctx context.Context, orderID kernel.UUID) error {
	endpoint := fmt.Sprintf("%s/orders/%s/status", c.baseURL, orderID.String())
	body, err := json.Marshal(map[string]string{"status": "fulfilled"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalLookupError("order service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NewObjectNotFoundError("order", orderID.String())
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errs.NewExternalLookupError("order service",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}
