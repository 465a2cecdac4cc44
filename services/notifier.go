package services

import (
	"fmt"
	"log/slog"
)

// Event types delivered to subscribers.
const (
	EventNewOrder           = "new-order"
	EventServiceCalled      = "service-called"
	EventOrderStatusUpdated = "order-status-updated"
	EventOrderCancelled     = "order-cancelled"
)

// StaffChannel reaches every connected staff dashboard.
const StaffChannel = "admin"

// TableChannel is the channel of clients viewing table n.
func TableChannel(n int) string {
	return fmt.Sprintf("table-%d", n)
}

type Event struct {
	Type    string `json:"event"`
	Payload any    `json:"data"`
}

// Notifier delivers events to whoever is subscribed to a channel right now.
// Publish must not block and gives no delivery guarantee.
type Notifier interface {
	Publish(channel string, ev Event)
}

// MultiNotifier publishes every event to each of its sinks.
type MultiNotifier []Notifier

func (m MultiNotifier) Publish(channel string, ev Event) {
	for _, n := range m {
		if n != nil {
			n.Publish(channel, ev)
		}
	}
}

// NopNotifier drops everything.
type NopNotifier struct{}

func (NopNotifier) Publish(string, Event) {}

func publish(n Notifier, channel string, ev Event) {
	if n == nil {
		return
	}
	slog.Debug("publish event", "channel", channel, "event", ev.Type)
	n.Publish(channel, ev)
}
