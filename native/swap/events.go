package swap

import (
	"encoding/hex"
	"strconv"

	"swapvault/core/types"
)

const (
	EventTypeOrderPlaced    = "swap.order.placed"
	EventTypeOrderCompleted = "swap.order.completed"
	EventTypeOrderCancelled = "swap.order.cancelled"
)

type swapEvent struct {
	evt *types.Event
}

func (e swapEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e swapEvent) Event() *types.Event { return e.evt }

// NewOrderPlacedEvent returns the canonical event payload for a newly listed
// order.
func NewOrderPlacedEvent(o *Order) *types.Event {
	attrs := orderAttributes(o)
	return &types.Event{Type: EventTypeOrderPlaced, Attributes: attrs}
}

// NewOrderCompletedEvent returns the canonical event payload emitted when an
// order is matched and atomically settled.
func NewOrderCompletedEvent(o *Order, completer [20]byte) *types.Event {
	attrs := orderAttributes(o)
	attrs["completer"] = hex.EncodeToString(completer[:])
	return &types.Event{Type: EventTypeOrderCompleted, Attributes: attrs}
}

// NewOrderCancelledEvent returns the canonical event payload emitted when the
// placer withdraws an order.
func NewOrderCancelledEvent(o *Order) *types.Event {
	attrs := orderAttributes(o)
	return &types.Event{Type: EventTypeOrderCancelled, Attributes: attrs}
}

func orderAttributes(o *Order) map[string]string {
	attrs := make(map[string]string)
	if o == nil {
		return attrs
	}
	sanitized, err := SanitizeOrder(o)
	if err != nil {
		return attrs
	}
	attrs["orderId"] = hex.EncodeToString(sanitized.ID[:])
	attrs["owner"] = hex.EncodeToString(sanitized.Owner[:])
	attrs["giveCollection"] = hex.EncodeToString(sanitized.Give.Collection[:])
	attrs["giveTokenId"] = sanitized.Give.TokenID.String()
	attrs["wantCollection"] = hex.EncodeToString(sanitized.Want.Collection[:])
	attrs["wantTokenId"] = sanitized.Want.TokenID.String()
	attrs["markUp"] = sanitized.MarkUp.String()
	attrs["createdAt"] = strconv.FormatInt(sanitized.CreatedAt, 10)
	return attrs
}
