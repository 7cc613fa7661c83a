package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/recipebox/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and runs it as a Hub
// client scoped to the caller. originPatterns is passed to the upgrader;
// empty means same origin only.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err, "user_id", userID)
			return
		}

		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
	}
}
