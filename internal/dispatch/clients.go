package dispatch

import (
	"context"
	"fmt"
)

// Client performs one physical send attempt to one recipient. Implementations
// must be safe for concurrent use: the dispatcher invokes a single client
// from one goroutine per recipient.
type Client interface {
	// Send delivers body to a normalized address and returns the
	// provider-assigned message ID.
	Send(ctx context.Context, address, body string) (string, error)
	Channel() Channel
}

// Registry holds the configured client for each channel.
type Registry struct {
	clients map[Channel]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[Channel]Client)}
}

func (r *Registry) Register(c Client) {
	r.clients[c.Channel()] = c
}

func (r *Registry) Get(channel Channel) (Client, error) {
	c, ok := r.clients[channel]
	if !ok {
		return nil, fmt.Errorf("no client registered for channel: %s", channel)
	}
	return c, nil
}
