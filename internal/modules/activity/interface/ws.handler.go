package transport

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/husbandvitamins/bookaconsult/internal/modules/activity/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewActivityHandler exposes the live reconciliation stream: each connected
// client receives every reconciliation event as it happens.
func NewActivityHandler(hub *infrastructure.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Warn("activity upgrade failed", slog.Any("error", err))
			return err
		}

		client := infrastructure.NewClient(hub, conn, 16)
		hub.Attach(client)
		go client.WritePump()
		client.ReadPump()
		return nil
	}
}
