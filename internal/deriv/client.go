// Package deriv is a minimal client for the Deriv WebSocket API. Each fetch
// opens one connection, authorizes, issues the profit_table and balance
// calls and closes; there is no subscription or connection reuse.
package deriv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultEndpoint = "wss://ws.derivws.com/websockets/v3"
	// DefaultAppID is Deriv's public demo application id.
	DefaultAppID = 1089
	// DefaultHistoryLimit bounds one profit-table page.
	DefaultHistoryLimit = 100
)

// ErrMissingToken means no API token was supplied at all. Callers must
// distinguish this from an upstream failure: nothing was dialed.
var ErrMissingToken = errors.New("deriv: no API token supplied")

// APIError is an error frame returned by the Deriv API itself
// (bad token, rate limit, invalid request).
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deriv: %s (%s)", e.Message, e.Code)
}

// Params configures the client.
type Params struct {
	Endpoint    string
	AppID       int
	DialTimeout time.Duration
	CallTimeout time.Duration
}

// Client talks to the Deriv WebSocket API. Safe for concurrent use: every
// call dials its own connection and shares no state.
type Client struct {
	p Params
}

func NewClient(p Params) *Client {
	if p.Endpoint == "" {
		p.Endpoint = DefaultEndpoint
	}
	if p.AppID == 0 {
		p.AppID = DefaultAppID
	}
	if p.DialTimeout == 0 {
		p.DialTimeout = 10 * time.Second
	}
	if p.CallTimeout == 0 {
		p.CallTimeout = 15 * time.Second
	}
	return &Client{p: p}
}

// FetchHistory authorizes with the given token and returns the most recent
// transactions (limit, descending by time) together with the account
// balance. Any failure is terminal for the invocation: no partial history
// is ever returned.
func (c *Client) FetchHistory(ctx context.Context, token string, limit int) (*History, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("deriv: dial: %w", err)
	}
	defer conn.Close()

	if _, err := c.call(ctx, conn, map[string]any{"authorize": strings.TrimSpace(token)}); err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	ptResp, err := c.call(ctx, conn, map[string]any{
		"profit_table": 1,
		"description":  1,
		"limit":        limit,
		"sort":         "DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("profit_table: %w", err)
	}
	if ptResp.ProfitTable == nil {
		return nil, errors.New("deriv: profit_table response missing payload")
	}

	balResp, err := c.call(ctx, conn, map[string]any{"balance": 1})
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	return &History{
		Transactions: ptResp.ProfitTable.Transactions,
		Balance:      balResp.Balance,
	}, nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.p.DialTimeout}
	url := fmt.Sprintf("%s?app_id=%d", c.p.Endpoint, c.p.AppID)
	conn, _, err := dialer.DialContext(ctx, url, nil)
	return conn, err
}

// call sends one request frame and reads frames until the matching req_id
// comes back. API-level error frames surface as *APIError.
func (c *Client) call(ctx context.Context, conn *websocket.Conn, req map[string]any) (*envelope, error) {
	reqID := time.Now().UnixNano() % 1_000_000_000
	req["req_id"] = reqID

	deadline := time.Now().Add(c.p.CallTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(req); err != nil {
		return nil, err
	}

	_ = conn.SetReadDeadline(deadline)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var resp envelope
		if err := conn.ReadJSON(&resp); err != nil {
			return nil, err
		}
		if resp.ReqID != reqID {
			// Not ours (server pings, late frames); keep reading.
			continue
		}
		if resp.Error != nil {
			return nil, &APIError{Code: resp.Error.Code, Message: resp.Error.Message}
		}
		return &resp, nil
	}
}
