package console

import (
	"context"
	"errors"
	"html/template"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"shopreco/internal/app/session"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the page.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an event sent by the page.
	maxMessageSize = 4096

	// sendBuffer is how many patches may wait for the write loop.
	sendBuffer = 256

	// fallbackCount replaces a recommendation count that is not a number.
	fallbackCount = 5
)

// errSendQueueFull is returned when the write loop falls too far behind.
var errSendQueueFull = errors.New("console: page send queue full")

// Page is one connected console page. It owns a Session Controller and is the
// controller's View: every View call becomes a Patch queued for the write loop.
type Page struct {
	// ID identifies the page in logs.
	ID string

	hub  *Hub
	conn *websocket.Conn

	// a buffered channel of encoded patches waiting to be written.
	send chan []byte

	// ctx ends when the page disconnects or the hub shuts down.
	ctx    context.Context
	cancel context.CancelFunc

	controller *session.Controller

	// ops tracks event handlers still running.
	ops sync.WaitGroup

	logger zerolog.Logger
}

func newPage(hub *Hub, conn *websocket.Conn, id string, backend session.Backend) *Page {
	ctx, cancel := context.WithCancel(hub.ctx)
	logger := hub.logger.With().Str("page_id", id).Logger()

	p := &Page{
		ID:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	p.controller = session.NewController(backend, p, logger)

	return p
}

// ReadPump reads events until the connection fails. Each event's synchronous half runs
// on the read loop in arrival order; its backend call runs on its own goroutine so a
// slow backend never stalls the loop.
func (p *Page) ReadPump() {
	defer p.cleanupOnDisconnect()

	p.conn.SetReadLimit(maxMessageSize)

	if err := p.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		p.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Info().Err(err).Msg("Page connection closed unexpectedly")
			}
			break
		}

		p.processInboundMessage(data)
	}
}

func (p *Page) cleanupOnDisconnect() {
	p.cancel()
	p.hub.unregister(p)

	if err := p.conn.Close(); err != nil {
		p.logger.Debug().Err(err).Msg("Page connection close error")
	}

	p.ops.Wait()
	p.logger.Info().Msg("Page disconnected")
}

func (p *Page) processInboundMessage(data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		p.logger.Warn().Err(err).Bytes("message_bytes", data).Msg("Page sent invalid JSON")
		return
	}

	switch ev.Type {
	case EventCreateUser, EventSelectUser, EventGetRecommendations, EventAddPurchase:
		if next := p.begin(ev); next != nil {
			p.run(func(ctx context.Context) { _ = next(ctx) })
		}
	case EventPickSKU:
		p.controller.PickCatalogSKU(ev.Value)
	default:
		p.logger.Warn().Str("event_type", string(ev.Type)).Msg("Page sent unsupported event type")
	}
}

// run executes fn on its own goroutine under the page context.
func (p *Page) run(fn func(ctx context.Context)) {
	p.ops.Add(1)
	go func() {
		defer p.ops.Done()
		fn(p.ctx)
	}()
}

// begin runs the synchronous half of one controller operation and returns the rest,
// or nil when the event ended there. Rejections were already shown to the page.
func (p *Page) begin(ev Event) session.Pending {
	var (
		next session.Pending
		err  error
	)

	switch ev.Type {
	case EventCreateUser:
		next, err = p.controller.BeginCreateUser(ev.Value)
	case EventSelectUser:
		next = p.controller.BeginSelectUser(ev.Value)
	case EventGetRecommendations:
		count, convErr := strconv.Atoi(ev.Value)
		if convErr != nil {
			count = fallbackCount
		}
		next, err = p.controller.BeginRefreshRecommendations(count)
	case EventAddPurchase:
		next, err = p.controller.BeginAddProductToUser(ev.Value)
	}

	if err != nil {
		return nil
	}
	return next
}

// WritePump writes queued patches and heartbeats until the page context ends or a
// write fails.
func (p *Page) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := p.conn.Close(); err != nil {
			p.logger.Debug().Err(err).Msg("Page connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-p.send:
			if !p.write(websocket.TextMessage, message) {
				return
			}

		case <-ticker.C:
			if !p.write(websocket.PingMessage, nil) {
				return
			}

		case <-p.ctx.Done():
			p.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (p *Page) write(messageType int, data []byte) bool {
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		p.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := p.conn.WriteMessage(messageType, data); err != nil {
		p.logger.Debug().Err(err).Int("message_type", messageType).Msg("Error writing to page")
		return false
	}

	return true
}

// enqueue encodes patch and hands it to the write loop without blocking.
func (p *Page) enqueue(patch Patch) {
	data, err := json.Marshal(patch)
	if err != nil {
		p.logger.Error().Err(err).Msg("Error marshaling patch")
		return
	}

	select {
	case <-p.ctx.Done():
	case p.send <- data:
	default:
		p.logger.Warn().Err(errSendQueueFull).Int("queue_len", len(p.send)).Str("op", string(patch.Op)).Msg("Dropping patch")
	}
}

func (p *Page) ReplaceRegion(region session.Region, html template.HTML) {
	p.enqueue(Patch{Op: OpReplace, Target: string(region), HTML: string(html)})
}

func (p *Page) SetText(field session.Field, text string) {
	p.enqueue(Patch{Op: OpText, Target: string(field), Value: &text})
}

func (p *Page) SetVisible(region session.Region, visible bool) {
	p.enqueue(Patch{Op: OpVisible, Target: string(region), Visible: &visible})
}

func (p *Page) SetInput(field session.Field, value string) {
	p.enqueue(Patch{Op: OpInput, Target: string(field), Value: &value})
}

func (p *Page) Notify(n session.Notice) {
	p.enqueue(Patch{Op: OpNotify, Notice: &n})
}
