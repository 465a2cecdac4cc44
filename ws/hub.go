package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"tableorder/services"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 32
)

// Frame is what clients receive.
type Frame struct {
	Event   string `json:"event"`
	Channel string `json:"channel,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type subscription struct {
	client  *Client
	channel string
}

type outbound struct {
	channel string
	payload []byte
}

type reply struct {
	client *Client
	frame  Frame
}

// Hub keeps the channel memberships of connected clients and delivers
// published events to them. All membership state is owned by Run.
type Hub struct {
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}

	connect    chan *Client
	disconnect chan *Client
	join       chan subscription
	leave      chan subscription
	replies    chan reply
	broadcast  chan outbound
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		clients:    make(map[*Client]struct{}),
		connect:    make(chan *Client),
		disconnect: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		replies:    make(chan reply, broadcastBuffer),
		broadcast:  make(chan outbound, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

var _ services.Notifier = (*Hub)(nil)

// Publish queues ev for everyone in channel. It never blocks: when the hub
// is backed up or stopped the event is dropped.
func (h *Hub) Publish(channel string, ev services.Event) {
	b, err := json.Marshal(Frame{Event: ev.Type, Channel: channel, Data: ev.Payload})
	if err != nil {
		slog.Error("ws marshal event", "event", ev.Type, "err", err)
		return
	}
	select {
	case h.broadcast <- outbound{channel: channel, payload: b}:
	default:
		slog.Warn("ws broadcast queue full, event dropped", "channel", channel, "event", ev.Type)
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return nil

		case c := <-h.connect:
			h.clients[c] = struct{}{}

		case c := <-h.disconnect:
			h.drop(c)

		case sub := <-h.join:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			room := h.rooms[sub.channel]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[sub.channel] = room
			}
			room[sub.client] = struct{}{}
			h.send(sub.client, Frame{Event: "joined", Channel: sub.channel})

		case sub := <-h.leave:
			h.removeFrom(sub.channel, sub.client)

		case r := <-h.replies:
			if _, ok := h.clients[r.client]; ok {
				h.send(r.client, r.frame)
			}

		case msg := <-h.broadcast:
			for c := range h.rooms[msg.channel] {
				h.deliver(c, msg.payload)
			}
		}
	}
}

func (h *Hub) removeFrom(channel string, c *Client) {
	room := h.rooms[channel]
	if room == nil {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, channel)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for ch := range h.rooms {
		h.removeFrom(ch, c)
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) send(c *Client, f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		slog.Error("ws marshal frame", "err", err)
		return
	}
	h.deliver(c, b)
}

// deliver never blocks the hub; a client that cannot keep up misses frames.
func (h *Hub) deliver(c *Client, b []byte) {
	select {
	case c.send <- b:
	default:
		slog.Warn("ws client queue full, frame dropped", "client", c.id)
	}
}

func (h *Hub) enqueue(ch chan subscription, sub subscription) {
	select {
	case ch <- sub:
	case <-h.done:
	}
}
