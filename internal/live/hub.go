// Package live runs the interactive parts of the site server-side. Every
// open tab holds a WebSocket; its Page owns the tab's theme and contact
// controllers and relays their effects back to the browser.
package live

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/metrics"
)

// Hub tracks open pages grouped by visitor so that a preference written in
// one tab reaches the visitor's other tabs.
type Hub struct {
	mu       sync.RWMutex
	visitors map[string]map[*Page]struct{}
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		visitors: make(map[string]map[*Page]struct{}),
		logger:   logger,
	}
}

// Register adds a page to its visitor's group.
func (h *Hub) Register(p *Page) {
	h.mu.Lock()
	group, ok := h.visitors[p.visitorID]
	if !ok {
		group = make(map[*Page]struct{})
		h.visitors[p.visitorID] = group
	}
	group[p] = struct{}{}
	h.mu.Unlock()
	metrics.LivePages.Inc()
	h.logger.Debug("page connected", zap.String("page_id", p.id), zap.String("visitor_id", p.visitorID))
}

// Unregister removes a page. Unknown pages are ignored.
func (h *Hub) Unregister(p *Page) {
	h.mu.Lock()
	group, ok := h.visitors[p.visitorID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := group[p]; !ok {
		h.mu.Unlock()
		return
	}
	delete(group, p)
	if len(group) == 0 {
		delete(h.visitors, p.visitorID)
	}
	h.mu.Unlock()
	metrics.LivePages.Dec()
	h.logger.Debug("page disconnected", zap.String("page_id", p.id), zap.String("visitor_id", p.visitorID))
}

// PublishPreference delivers a stored preference change to every page of
// the visitor except from, which may be nil. ok is false when the key was
// removed.
func (h *Hub) PublishPreference(visitorID string, from *Page, key, value string, ok bool) {
	h.mu.RLock()
	targets := make([]*Page, 0, len(h.visitors[visitorID]))
	for p := range h.visitors[visitorID] {
		if p != from {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range targets {
		p.onPreferenceChanged(key, value, ok)
	}
}

// PageCount returns the number of open pages.
func (h *Hub) PageCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, group := range h.visitors {
		n += len(group)
	}
	return n
}

// VisitorPageCount returns the number of open pages of one visitor.
func (h *Hub) VisitorPageCount(visitorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.visitors[visitorID])
}
