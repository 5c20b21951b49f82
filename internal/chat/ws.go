package chat

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format. Each frame is one
// chat turn with the same fields as the HTTP endpoint.
type wsRequest struct {
	ClientID  string `json:"clientId"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// wsError is the outgoing error frame.
type wsError struct {
	Type  string `json:"type"` // always "error"
	Error string `json:"error"`
}

// handleWebSocket runs chat turns over a persistent connection. Frames are
// processed sequentially per connection; per-session locking inside the
// processor handles concurrent connections to the same conversation.
func handleWebSocket(p *Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sendWSError(conn, "invalid message format")
				continue
			}
			if req.ClientID == "" {
				sendWSError(conn, "clientId is required")
				continue
			}

			resp, err := p.Process(r.Context(), Request{
				ClientID:  req.ClientID,
				Message:   req.Message,
				SessionID: req.SessionID,
			})
			if err != nil {
				sendWSError(conn, err.Error())
				continue
			}

			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("chat: websocket write: %v", err)
				return
			}
		}
	}
}

func sendWSError(conn *websocket.Conn, msg string) {
	if err := conn.WriteJSON(wsError{Type: "error", Error: msg}); err != nil {
		log.Printf("chat: websocket error write: %v", err)
	}
}
