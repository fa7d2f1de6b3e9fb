package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is delegated to the session layer.
		return true
	},
}

// Handler upgrades HTTP requests to WebSocket connections scoped to a club.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates the WebSocket upgrade handler.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// Serve handles GET /ws/:club_id. The connection is registered for the club
// and held open until the client disconnects; incoming frames are drained and
// discarded (this layer only pushes).
func (h *Handler) Serve(c echo.Context) error {
	clubID := c.Param("club_id")
	if clubID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "club_id is required")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	h.manager.Register(conn, clubID)
	defer func() {
		h.manager.Unregister(conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "club_id", clubID, "error", err)
			}
			return nil
		}
	}
}
