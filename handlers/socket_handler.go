package handlers

import (
	"encoding/json"
	"net/http"
	"time"
	"toilet-finder/logger"
	"toilet-finder/middleware"
	"toilet-finder/models"
	"toilet-finder/services"
	"toilet-finder/utils/errors"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// SocketHandler pushes map snapshots of a view over a websocket.
type SocketHandler struct {
	registry *services.Registry
	upgrader websocket.Upgrader
}

func NewSocketHandler(registry *services.Registry, allowedOrigins []string) *SocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &SocketHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin] ||
					origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

func (h *SocketHandler) ViewSocket(w http.ResponseWriter, r *http.Request) {
	v, ok := h.registry.Get(mux.Vars(r)["id"])
	if !ok {
		middleware.WriteError(w, errors.ErrViewNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warn("ws_upgrade_failed", "view_id", v.ID, "err", err)
		return
	}

	snapshots, cancel := v.Subscribe()
	logger.L().Debug("ws_connected", "view_id", v.ID)

	go readPump(conn, cancel)
	writePump(conn, snapshots, cancel)
	logger.L().Debug("ws_disconnected", "view_id", v.ID)
}

// readPump discards client messages and cancels the subscription when the
// connection goes away.
func readPump(conn *websocket.Conn, cancel func()) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Warn("ws_read_error", "err", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, snapshots <-chan models.MapSnapshot, cancel func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case snap, ok := <-snapshots:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "view closed"))
				return
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				logger.L().Error("ws_encode_error", "err", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
