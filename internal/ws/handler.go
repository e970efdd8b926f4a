// Package ws bridges the WebSocket transport to the peer host actor.
// The transport plays the "reliable ordered channel" collaborator role
// of the sync protocol: one connection per remote participant, message
// boundaries preserved by websocket frames.
package ws

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/hub"
	"github.com/vmercier/timesup-backend/internal/peer"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *hub.Entry, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		entry := <-reply
		if entry == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The peer id is this connection's transport address from the
		// host's point of view.
		peerID := randID(8)
		outbox := make(chan peer.Message, 8)

		entry.Host.Inbox() <- peer.Connect{PeerID: peerID, Outbox: outbox}
		defer func() { entry.Host.Inbox() <- peer.Disconnect{PeerID: peerID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range outbox {
				data, err := peer.Encode(msg)
				if err != nil {
					log.Error("encode outbound message", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, data)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			msg, err := peer.Decode(data)
			if err != nil {
				// Unknown tags and malformed payloads are protocol
				// errors: report them and drop the connection.
				log.Warn("protocol error", zap.String("peer", peerID), zap.Error(err))
				writeError(r.Context(), conn, "protocol error: "+err.Error())
				return
			}

			entry.Host.Inbox() <- peer.Inbound{PeerID: peerID, Msg: msg}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, message string) {
	data, err := peer.Encode(peer.ErrorMessage{Message: message})
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, data)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
