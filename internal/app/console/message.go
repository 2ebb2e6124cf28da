package console

import (
	"shopreco/internal/app/session"
)

// EventType names a UI event sent by the page.
type EventType string

const (
	EventCreateUser         EventType = "create-user"
	EventSelectUser         EventType = "select-user"
	EventGetRecommendations EventType = "get-recommendations"
	EventAddPurchase        EventType = "add-purchase"
	EventPickSKU            EventType = "pick-sku"
)

// Event is one inbound websocket message. Value carries the relevant input: the
// typed user id, the chosen option, the requested count or the sku.
type Event struct {
	Type  EventType `json:"type"`
	Value string    `json:"value"`
}

// PatchOp names a page mutation.
type PatchOp string

const (
	OpReplace PatchOp = "replace"
	OpText    PatchOp = "text"
	OpVisible PatchOp = "visible"
	OpInput   PatchOp = "input"
	OpNotify  PatchOp = "notify"
)

// Patch is one outbound websocket message. Which fields are set depends on Op.
type Patch struct {
	Op      PatchOp         `json:"op"`
	Target  string          `json:"target,omitempty"`
	HTML    string          `json:"html,omitempty"`
	Value   *string         `json:"value,omitempty"`
	Visible *bool           `json:"visible,omitempty"`
	Notice  *session.Notice `json:"notice,omitempty"`
}
