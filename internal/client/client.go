// Package client implements the consumer side of the notification
// API: a small JSON HTTP client, a request cache that collapses
// concurrent identical fetches, and the panel widget state machine
// that front-ends embed.
package client

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"
)

// FeedItem is one notification as served by the API.
type FeedItem struct {
    ID                uint64        `json:"id"`
    Title             string        `json:"title"`
    Message           string        `json:"message"`
    Type              string        `json:"type"`
    IsRead            bool          `json:"is_read"`
    CreatedAt         string        `json:"created_at"`
    RestaurantName    *string       `json:"restaurant_name"`
    RestaurantAddress *string       `json:"restaurant_address"`
    Booking           *FeedBooking  `json:"booking,omitempty"`
    Order             *FeedOrder    `json:"order,omitempty"`
}

// FeedBooking is the booking context attached to a notification.
type FeedBooking struct {
    BookingID   uint64 `json:"booking_id"`
    Date        string `json:"date"`
    Time        string `json:"time"`
    TableNumber uint32 `json:"table_number"`
}

// FeedOrder is the order context attached to a notification.
type FeedOrder struct {
    OrderID     uint64  `json:"order_id"`
    OrderType   string  `json:"order_type"`
    Status      string  `json:"status"`
    TotalAmount float64 `json:"total_amount"`
}

// Feed is the consolidated notification response: the page of items
// plus counts that are independent of the page size.
type Feed struct {
    Notifications []FeedItem `json:"notifications"`
    UnreadCount   int        `json:"unread_count"`
    TotalCount    int        `json:"total_count"`
}

// APIError carries a non-2xx response from the server.
type APIError struct {
    StatusCode int
    Message    string
}

func (e *APIError) Error() string {
    return fmt.Sprintf("api error: status=%d message=%q", e.StatusCode, e.Message)
}

// Client talks to the booking service's notification endpoints on
// behalf of one authenticated user.
type Client struct {
    baseURL string
    token   string
    httpc   *http.Client
}

// New returns a Client for the given server base URL (no trailing
// slash) and bearer access token.
func New(baseURL, token string) *Client {
    return &Client{
        baseURL: baseURL,
        token:   token,
        httpc:   &http.Client{Timeout: 10 * time.Second},
    }
}

// SetHTTPClient swaps the underlying http.Client. Tests use it to
// point the client at an httptest server with custom transports.
func (c *Client) SetHTTPClient(h *http.Client) { c.httpc = h }

// Notifications fetches the consolidated feed. limit <= 0 leaves the
// server default in place.
func (c *Client) Notifications(ctx context.Context, limit int, unreadOnly bool) (*Feed, error) {
    url := c.baseURL + "/v1/bookings/notifications"
    sep := "?"
    if limit > 0 {
        url += sep + "limit=" + strconv.Itoa(limit)
        sep = "&"
    }
    if unreadOnly {
        url += sep + "unread_only=true"
    }
    var feed Feed
    if err := c.do(ctx, http.MethodGet, url, nil, &feed); err != nil {
        return nil, err
    }
    return &feed, nil
}

// UnreadCount calls the legacy count endpoint.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
    var out struct {
        Count int `json:"count"`
    }
    url := c.baseURL + "/v1/bookings/notifications/unread-count"
    if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
        return 0, err
    }
    return out.Count, nil
}

// MarkRead marks one notification as read.
func (c *Client) MarkRead(ctx context.Context, id uint64) error {
    url := fmt.Sprintf("%s/v1/bookings/notifications/%d/read", c.baseURL, id)
    return c.do(ctx, http.MethodPut, url, nil, nil)
}

// MarkAllRead marks every notification of the user as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
    url := c.baseURL + "/v1/bookings/notifications/mark-all-read"
    return c.do(ctx, http.MethodPut, url, nil, nil)
}

// do performs one JSON round trip. Non-2xx responses become APIError
// with the server's error message when one can be decoded.
func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
    var rd io.Reader
    if body != nil {
        raw, err := json.Marshal(body)
        if err != nil {
            return err
        }
        rd = bytes.NewReader(raw)
    }
    req, err := http.NewRequestWithContext(ctx, method, url, rd)
    if err != nil {
        return err
    }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    if c.token != "" {
        req.Header.Set("Authorization", "Bearer "+c.token)
    }
    resp, err := c.httpc.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        var apiErr struct {
            Error string `json:"error"`
        }
        _ = json.NewDecoder(resp.Body).Decode(&apiErr)
        return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
    }
    if out != nil {
        return json.NewDecoder(resp.Body).Decode(out)
    }
    return nil
}
