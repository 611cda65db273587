// Package api provides HTTP handlers and middleware.
package api

import (
	"github.com/insightly/insightly-go/cache"
	"github.com/insightly/insightly-go/email"
	"github.com/insightly/insightly-go/events"
	"github.com/insightly/insightly-go/store"
)

// Handlers bundles the dependencies of all HTTP endpoints.
type Handlers struct {
	Store     *store.Store
	Cache     *cache.Manager
	Processor *events.EventProcessor
	Email     *email.Client
}

// NewHandlers creates the handler set. Email may be nil when no sending
// credentials are configured; welcome emails are then skipped.
func NewHandlers(s *store.Store, c *cache.Manager, p *events.EventProcessor, e *email.Client) *Handlers {
	return &Handlers{Store: s, Cache: c, Processor: p, Email: e}
}
