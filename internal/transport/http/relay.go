// Package http carries the app's transport surfaces: a store-and-forward
// websocket relay standing in for the chat transport, and JSON endpoints for
// driving a game from thin clients.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is one delivered chat bubble: the game payload URL plus its caption.
type Message struct {
	SenderID string `json:"senderId"`
	Caption  string `json:"caption"`
	URL      string `json:"url"`
	SentAt   int64  `json:"sentAt"`
}

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type sendPayload struct {
	Caption string `json:"caption"`
	URL     string `json:"url"`
}

type participantsPayload struct {
	LocalID   string   `json:"localId"`
	RemoteIDs []string `json:"remoteIds"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Relay is a store-and-forward message hub keyed by conversation. Messages
// are relayed to the other connected participants, and the latest message per
// conversation is retained so a device that connects later still receives the
// current game snapshot. Delivery order and retries are the transport's
// business; the game model tolerates replays by construction.
type Relay struct {
	upgrader websocket.Upgrader

	mu            sync.Mutex
	conversations map[string]*conversation
}

type conversation struct {
	clients map[string]chan outboundFrame
	last    *Message
}

func NewRelay() *Relay {
	return &Relay{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conversations: make(map[string]*conversation),
	}
}

// ServeWS attaches one device to a conversation. Query parameters supply the
// conversation id and the device's opaque participant id.
func (relay *Relay) ServeWS(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	participantID := r.URL.Query().Get("participantId")
	if conversationID == "" || participantID == "" {
		http.Error(w, "missing conversationId or participantId", http.StatusBadRequest)
		return
	}

	conn, err := relay.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send, last, remoteIDs := relay.join(conversationID, participantID)
	defer relay.leave(conversationID, participantID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for frame := range send {
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundFrame{Type: "participants", Payload: participantsPayload{
		LocalID:   participantID,
		RemoteIDs: remoteIDs,
	}}
	if last != nil {
		send <- outboundFrame{Type: "message", Payload: *last}
	}

	for {
		var inbound inboundFrame
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "send":
			var payload sendPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.URL == "" {
				send <- outboundFrame{Type: "error", Payload: errorPayload{Message: "invalid send payload"}}
				continue
			}
			relay.deliver(conversationID, Message{
				SenderID: participantID,
				Caption:  payload.Caption,
				URL:      payload.URL,
				SentAt:   time.Now().Unix(),
			})
		default:
			send <- outboundFrame{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	// Leave first so deliver can no longer reach the channel being closed.
	relay.leave(conversationID, participantID)
	close(send)
	<-writerDone
}

func (relay *Relay) join(conversationID, participantID string) (chan outboundFrame, *Message, []string) {
	relay.mu.Lock()
	defer relay.mu.Unlock()

	convo, ok := relay.conversations[conversationID]
	if !ok {
		convo = &conversation{clients: make(map[string]chan outboundFrame)}
		relay.conversations[conversationID] = convo
	}

	send := make(chan outboundFrame, 16)
	convo.clients[participantID] = send

	remoteIDs := make([]string, 0, len(convo.clients))
	for id := range convo.clients {
		if id != participantID {
			remoteIDs = append(remoteIDs, id)
		}
	}
	return send, convo.last, remoteIDs
}

func (relay *Relay) leave(conversationID, participantID string) {
	relay.mu.Lock()
	defer relay.mu.Unlock()

	convo, ok := relay.conversations[conversationID]
	if !ok {
		return
	}
	delete(convo.clients, participantID)
	if len(convo.clients) == 0 && convo.last == nil {
		delete(relay.conversations, conversationID)
	}
}

func (relay *Relay) deliver(conversationID string, msg Message) {
	relay.mu.Lock()
	defer relay.mu.Unlock()

	convo, ok := relay.conversations[conversationID]
	if !ok {
		return
	}
	convo.last = &msg

	for id, send := range convo.clients {
		if id == msg.SenderID {
			continue
		}
		select {
		case send <- outboundFrame{Type: "message", Payload: msg}:
		default:
			// Slow readers keep only the newest snapshot.
			select {
			case <-send:
			default:
			}
			send <- outboundFrame{Type: "message", Payload: msg}
		}
	}
}
