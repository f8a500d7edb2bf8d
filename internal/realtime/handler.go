package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/voxlive/vox-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the request to a websocket, registers the connection
// with the hub and shuttles frames both ways until the peer goes away.
func Handler(h *Hub, origins []string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: origins,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		client := NewClient()

		reply := make(chan string, 1)
		h.Inbox() <- Join{Client: client, Reply: reply}
		code := <-reply
		if code == "" {
			conn.Close(websocket.StatusInternalError, "no session code available")
			return
		}
		log.Debug("client joined", zap.String("code", code))

		// Directory cleanup must finish before the socket is released, so
		// the code can never resolve to a dead connection.
		defer func() {
			done := make(chan struct{})
			h.Inbox() <- Leave{Client: client, Done: done}
			<-done
		}()

		// Writer goroutine: sole writer on the socket.
		go func() {
			for msg := range client.Outbox() {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop. No application-level read deadline: the transport's
		// own keep-alive is the failure detector here.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				h.Inbox() <- NotifyError{Client: client, Text: "bad json"}
				continue
			}

			msg, ok := toHubMsg(client, cm)
			if !ok {
				h.Inbox() <- NotifyError{Client: client, Text: "unknown type"}
				continue
			}
			h.Inbox() <- msg
		}
	}
}

func toHubMsg(c *Client, m types.ClientMessage) (HubMsg, bool) {
	switch m.Type {
	case "allow-vote":
		if m.Target == "" {
			return nil, false
		}
		return AllowVote{Target: m.Target}, true
	case "send-vote":
		if m.Group == "" || m.Participant == "" {
			return nil, false
		}
		return CastVote{Group: m.Group, Participant: m.Participant}, true
	case "watch-group":
		if m.Group == "" {
			return nil, false
		}
		return Watch{Client: c, Group: m.Group}, true
	case "unwatch-group":
		if m.Group == "" {
			return nil, false
		}
		return Unwatch{Client: c, Group: m.Group}, true
	default:
		return nil, false
	}
}
