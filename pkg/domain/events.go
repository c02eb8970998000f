package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInventory EventType = "inventory"
	EventLookup    EventType = "lookup"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// InventoryEvent reports one fetch from an inventory source.
type InventoryEvent struct {
	EventBase
	Catalog  string        `json:"catalog"` // "devices" or "pairs"
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LookupEvent reports the outcome of a device or pair lookup.
type LookupEvent struct {
	EventBase
	Lookup   string `json:"lookup"` // "devices" or "pairs"
	Platform string `json:"platform,omitempty"`
	Target   string `json:"target,omitempty"`
	Matches  int    `json:"matches"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for lookup observability.
type LifecycleHooks struct {
	OnInventory func(context.Context, *InventoryEvent)
	OnLookup    func(context.Context, *LookupEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnInventory: chain(h.OnInventory, other.OnInventory),
		OnLookup:    chain(h.OnLookup, other.OnLookup),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
