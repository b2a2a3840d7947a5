package table

import (
	"context"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
)

// EventType identifies what happened to a data source.
type EventType string

const (
	EventRowsSet       EventType = "rows:set"
	EventFilterSet     EventType = "filter:set"
	EventRender        EventType = "render"
	EventPageCorrected EventType = "page:corrected"
	EventConnect       EventType = "connect"
	EventDisconnect    EventType = "disconnect"
)

// Event describes a change in a data source. Counts are taken at the time the
// event is emitted.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp int64          `json:"timestamp"` // Unix milliseconds.
	Rows      int            `json:"rows"`
	Filtered  int            `json:"filtered"`
	Rendered  int            `json:"rendered"`
	Filter    string         `json:"filter,omitempty"`
	Sort      Sort           `json:"sort"`
	PageIndex int            `json:"pageIndex"`
	Context   map[string]any `json:"context,omitempty"`
}

// EventCallbackFunction handles a data source event.
type EventCallbackFunction func(ctx context.Context, event Event) error

// SubscriptionOptions defines options for registering a subscription.
type SubscriptionOptions struct {
	Event       EventType `json:"event"`
	Label       *string   `json:"label,omitempty"`
	Description *string   `json:"description,omitempty"`
	Callback    EventCallbackFunction
}

// SubscriptionInfo describes a registered subscription.
type SubscriptionInfo struct {
	ID          string    `json:"id"`
	Event       EventType `json:"event"`
	Label       *string   `json:"label,omitempty"`
	Description *string   `json:"description,omitempty"`
	Unsubscribe func()    `json:"-"`
}

// eventHub pairs the event bus with the registry of subscriptions made through
// it.
type eventHub struct {
	bus           *events.TypedEventBus[Event]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex
}

func newEventHub() (*eventHub, error) {
	bus, err := events.NewTypedEventBus[Event](events.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return &eventHub{
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}, nil
}

func (h *eventHub) emit(event Event) {
	if h == nil || h.bus == nil {
		return
	}
	event.Timestamp = time.Now().UnixMilli()
	h.bus.Emit(string(event.Type), event)
}

func (h *eventHub) register(options SubscriptionOptions) string {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	unsubscribe := h.bus.Subscribe(string(options.Event), options.Callback)
	id := uuid.New().String()

	h.subscriptions[id] = &SubscriptionInfo{
		ID:          id,
		Event:       options.Event,
		Label:       options.Label,
		Description: options.Description,
		Unsubscribe: unsubscribe,
	}
	return id
}

func (h *eventHub) unregister(id string) {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	if info, ok := h.subscriptions[id]; ok {
		info.Unsubscribe()
		delete(h.subscriptions, id)
	}
}

func (h *eventHub) list() []SubscriptionInfo {
	h.subMu.RLock()
	defer h.subMu.RUnlock()

	subs := make([]SubscriptionInfo, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, *sub)
	}
	return subs
}
