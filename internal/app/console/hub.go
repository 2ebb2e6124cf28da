/*
Package console serves the interactive page of the demo.

A browser loads the static shell and opens a websocket. Each connection becomes a
Page with its own Session Controller; the browser sends UI events, the server answers
with patches to apply to the document.
*/
package console

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"shopreco/internal/app/session"
	"shopreco/internal/pkg/logx"
	"shopreco/internal/pkg/metrics"
	"shopreco/internal/pkg/randx"
)

// Hub tracks the connected pages and shares one backend client between them.
type Hub struct {
	backend session.Backend

	// pages stores every connected Page, keyed by page id.
	pages map[string]*Page

	// mu protects the pages map.
	mu sync.RWMutex

	// ctx is the parent of every page context; cancelling it disconnects all pages.
	ctx    context.Context
	cancel context.CancelFunc

	// wg waits for Serve calls to return during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub returns a Hub whose pages call backend.
func NewHub(backend session.Backend) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		backend: backend,
		pages:   make(map[string]*Page),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logx.For("console"),
	}
}

// Serve runs one page on conn and blocks until it disconnects.
func (h *Hub) Serve(conn *websocket.Conn) {
	h.wg.Add(1)
	defer h.wg.Done()

	id, err := randx.PageID()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate page id")
		_ = conn.Close()
		return
	}

	p := newPage(h, conn, id, h.backend)
	h.register(p)

	go p.WritePump()

	p.run(func(ctx context.Context) { _ = p.controller.Initialize(ctx) })

	p.ReadPump()
}

// Count returns the number of connected pages.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}

func (h *Hub) register(p *Page) {
	h.mu.Lock()
	h.pages[p.ID] = p
	h.mu.Unlock()

	metrics.ConsolePages.Inc()
	p.logger.Info().Msg("Page connected")
}

func (h *Hub) unregister(p *Page) {
	h.mu.Lock()
	_, ok := h.pages[p.ID]
	delete(h.pages, p.ID)
	h.mu.Unlock()

	if ok {
		metrics.ConsolePages.Dec()
	}
}

// Shutdown disconnects every page and waits for them to finish.
func (h *Hub) Shutdown() {
	h.logger.Info().Int("pages", h.Count()).Msg("Shutting down console hub...")

	h.cancel()
	h.wg.Wait()

	h.logger.Info().Msg("Console hub shutdown complete.")
}
