package console

import (
	"context"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopreco/internal/app/shop"
)

// purchaseRecorder remembers which user every purchase was posted for.
type purchaseRecorder struct {
	stubBackend

	mu    sync.Mutex
	users []shop.UserID
}

func (r *purchaseRecorder) AddPurchase(_ context.Context, id shop.UserID, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, id)
	return nil
}

func (r *purchaseRecorder) recorded() []shop.UserID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shop.UserID(nil), r.users...)
}

func encodeEvent(t *testing.T, ev Event) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func TestPage_PurchaseFollowsPrecedingSelection(t *testing.T) {
	selectBob := encodeEvent(t, Event{Type: EventSelectUser, Value: "bob"})
	purchase := encodeEvent(t, Event{Type: EventAddPurchase, Value: "X"})

	for i := 0; i < 200; i++ {
		backend := &purchaseRecorder{}
		hub := NewHub(backend)
		p := newPage(hub, nil, "ordering", backend)
		p.controller.Session().Select("alice")

		p.processInboundMessage(selectBob)
		p.processInboundMessage(purchase)
		p.ops.Wait()
		hub.cancel()

		require.Equal(t, []shop.UserID{"bob"}, backend.recorded(), "run %d", i)
	}
}

func TestPage_SelectionClearedBeforePurchase(t *testing.T) {
	backend := &purchaseRecorder{}
	hub := NewHub(backend)
	t.Cleanup(hub.cancel)

	p := newPage(hub, nil, "ordering", backend)
	p.controller.Session().Select("alice")

	p.processInboundMessage(encodeEvent(t, Event{Type: EventSelectUser, Value: ""}))
	p.processInboundMessage(encodeEvent(t, Event{Type: EventAddPurchase, Value: "X"}))
	p.ops.Wait()

	assert.Empty(t, backend.recorded())

	var last Patch
	for len(p.send) > 0 {
		require.NoError(t, json.Unmarshal(<-p.send, &last))
	}
	require.NotNil(t, last.Notice)
	assert.Equal(t, "Please select a user first", last.Notice.Message)
}
