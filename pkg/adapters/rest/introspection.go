package rest

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL       string `json:"base_url"`
	Authenticated bool   `json:"authenticated"`
	Requests      int64  `json:"requests"`
	Refreshes     int64  `json:"refreshes"`
	Replays       int64  `json:"replays"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{
		BaseURL:       c.baseURL,
		Authenticated: c.creds.Token() != "",
		Requests:      c.requests.Load(),
		Refreshes:     c.refreshes.Load(),
		Replays:       c.replays.Load(),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "rest-client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
