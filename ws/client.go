package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tableorder/entity"
	"tableorder/services"
	"tableorder/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// Client is one websocket connection.
type Client struct {
	id    string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	staff *entity.Staff
}

// inbound is a message sent by a client.
type inbound struct {
	Event       string `json:"event"`
	TableNumber int    `json:"tableNumber"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws. Anyone may watch a table; joining the
// staff channel needs the staff member set by OptionalAuth.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade", "err", err)
		return
	}

	cl := &Client{
		id:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, clientBuffer),
		staff: utils.CurrentStaff(c),
	}
	select {
	case h.connect <- cl:
	case <-h.done:
		conn.Close()
		return
	}
	slog.Debug("ws connected", "client", cl.id)

	go cl.writeLoop()
	go cl.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		select {
		case c.hub.disconnect <- c:
		case <-c.hub.done:
		}
		slog.Debug("ws disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws read", "client", c.id, "err", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			c.replyError("invalid message")
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg inbound) {
	switch msg.Event {
	case "join-table":
		if msg.TableNumber <= 0 {
			c.replyError("tableNumber is required")
			return
		}
		c.hub.enqueue(c.hub.join, subscription{client: c, channel: services.TableChannel(msg.TableNumber)})
	case "leave-table":
		c.hub.enqueue(c.hub.leave, subscription{client: c, channel: services.TableChannel(msg.TableNumber)})
	case "join-admin":
		if c.staff == nil {
			c.replyError("unauthorized")
			return
		}
		c.hub.enqueue(c.hub.join, subscription{client: c, channel: services.StaffChannel})
	default:
		c.replyError("unknown event: " + msg.Event)
	}
}

func (c *Client) replyError(message string) {
	r := reply{client: c, frame: Frame{Event: "error", Data: gin.H{"message": message}}}
	select {
	case c.hub.replies <- r:
	case <-c.hub.done:
	default:
	}
}

// writeLoop owns all writes to the connection. It exits when the hub closes
// the send queue.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
