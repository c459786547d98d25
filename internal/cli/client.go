package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/triviaduel/internal/api/apierr"
	"github.com/mcoot/triviaduel/internal/api/response"
)

// Client talks to a duel server's HTTP surface
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SocketURL returns the websocket endpoint for the server
func (c *Client) SocketURL() string {
	url := c.baseURL + "/api/duel"
	if strings.HasPrefix(url, "https") {
		return "wss" + strings.TrimPrefix(url, "https")
	}
	return "ws" + strings.TrimPrefix(url, "http")
}

// CreateRoom creates a new duel room and returns its id
func (c *Client) CreateRoom(ctx context.Context) (string, error) {
	var out response.RoomCreated
	if err := c.do(ctx, http.MethodPost, "/api/create-room", &out); err != nil {
		return "", err
	}
	return out.RoomID, nil
}

// Probe checks whether a room is open for joining
func (c *Client) Probe(ctx context.Context, roomID string) (string, error) {
	var out response.RoomJoinable
	if err := c.do(ctx, http.MethodGet, "/api/join-room/"+roomID, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// GetRoom fetches the sanitized state of a room
func (c *Client) GetRoom(ctx context.Context, roomID string) (*response.Room, error) {
	var out response.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms/"+roomID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks the server's health endpoint
func (c *Client) Health(ctx context.Context) error {
	var out response.Health
	return c.do(ctx, http.MethodGet, "/api/health", &out)
}

func (c *Client) do(ctx context.Context, method, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body apierr.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Code != "" {
			return fmt.Errorf("%s: %s", body.Error.Code, body.Error.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if into == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(into)
}
