package form

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts the two forms to the workshop server.
type Client struct {
	baseURL     string
	addPath     string
	processPath string
	client      *http.Client
}

// NewClient creates a form client. A zero timeout means none.
func NewClient(baseURL, addPath, processPath string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		addPath:     addPath,
		processPath: processPath,
		client:      &http.Client{Timeout: timeout},
	}
}

// AddOrder posts the add-order form. Any non-2xx final status is an error.
func (c *Client) AddOrder(ctx context.Context, f Fields) error {
	return c.post(ctx, c.addPath, f.Values())
}

// ProcessOrders posts the process-orders form.
func (c *Client) ProcessOrders(ctx context.Context) error {
	return c.post(ctx, c.processPath, url.Values{})
}

func (c *Client) post(ctx context.Context, path string, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
