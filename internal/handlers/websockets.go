package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"purpleair_monitor/internal/models"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// Updates arrive once per poll; a small buffer absorbs a slow writer
	// without ever blocking the poll goroutine.
	updateBuffer = 8
)

// Envelope used for WebSocket messages. Type is "reading" when Data carries
// a snapshot and "cleared" when the last poll attempt failed.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsConnect upgrades the connection and pushes a snapshot on connect plus an
// update after every poll completion, success or failure.
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Poll completions land here; the subscriber callback must not block,
	// so a full buffer drops the oldest semantics in favor of skipping.
	updates := make(chan *models.SensorReading, updateBuffer)
	unsubscribe := h.services.AirQuality.Subscribe(func(r *models.SensorReading) {
		select {
		case updates <- r:
		default:
		}
	})
	defer unsubscribe()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// Initial snapshot immediately.
	if err := h.sendReading(conn, h.services.AirQuality.LastReading()); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case r := <-updates:
			if err := h.sendReading(conn, r); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect
// closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendReading writes a reading or cleared envelope with a write deadline.
func (h *Handler) sendReading(conn *websocket.Conn, r *models.SensorReading) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if r == nil {
		return conn.WriteJSON(wsEnvelope{Type: "cleared"})
	}
	return conn.WriteJSON(wsEnvelope{Type: "reading", Data: r})
}
