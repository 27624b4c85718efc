package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ringkasan/pkg/logger"
)

const (
	SnapshotType         = "SNAPSHOT"          // Latest revision, sent on join
	RevisionSavedType    = "REVISION_SAVED"    // A revision was appended
	RevisionRestoredType = "REVISION_RESTORED" // An older revision was restored
	HistoryCleanedType   = "HISTORY_CLEANED"   // Old revisions were dropped
	PresenceUpdateType   = "PRESENCE_UPDATE"   // A user joined or left
)

const broadcastBuffer = 256

type WSMessage struct {
	Type    string          `json:"type"`
	DocID   string          `json:"document_id"`
	UserID  string          `json:"user_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type UserStatus struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// SnapshotFunc returns the state a joining client starts from, if any.
type SnapshotFunc func(docID string) (any, bool)

// Hub fans history events out to the clients watching each document.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	Presence   map[string]map[string]UserStatus // docID -> userID -> status

	snapshot SnapshotFunc
	done     chan struct{}
	mu       sync.Mutex
}

func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Broadcast:  make(chan WSMessage, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Presence:   make(map[string]map[string]UserStatus),
		snapshot:   snapshot,
		done:       make(chan struct{}),
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Notify queues an event for every client watching docID. It never blocks:
// when the queue is full the event is dropped.
func (h *Hub) Notify(docID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s event for doc %s: %v", eventType, docID, err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: eventType, DocID: docID, Payload: raw}:
	default:
		logger.Sugar.Warnf("Broadcast queue full, dropping %s event for doc %s", eventType, docID)
	}
}

// Run serves Register, Unregister and Broadcast until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if h.Rooms[client.DocID] == nil {
				h.Rooms[client.DocID] = make(map[*Client]bool)
				h.Presence[client.DocID] = make(map[string]UserStatus)
			}
			h.Rooms[client.DocID][client] = true
			h.Presence[client.DocID][client.UserID] = UserStatus{UserID: client.UserID, JoinedAt: time.Now().UTC()}
			h.mu.Unlock()

			h.sendSnapshot(client)
			h.broadcastPresenceUpdate(client.DocID)

		case client := <-h.Unregister:
			docID := client.DocID
			if h.remove(client) {
				h.broadcastPresenceUpdate(docID)
			}

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.Rooms[msg.DocID]))
			for client := range h.Rooms[msg.DocID] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					logger.Sugar.Warnf("Client %s's send buffer is full. Unregistering.", client.UserID)
					h.remove(client)
				}
			}
		}
	}
}

// remove drops client from its room and reports whether the room still has
// other clients.
func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.Rooms[client.DocID]
	if !ok || !room[client] {
		return false
	}
	delete(room, client)
	delete(h.Presence[client.DocID], client.UserID)
	close(client.Send)

	if len(room) == 0 {
		delete(h.Rooms, client.DocID)
		delete(h.Presence, client.DocID)
		logger.Sugar.Infof("Closed empty room: %s", client.DocID)
		return false
	}
	return true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for docID, room := range h.Rooms {
		for client := range room {
			close(client.Send)
		}
		delete(h.Rooms, docID)
		delete(h.Presence, docID)
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	if h.snapshot == nil {
		return
	}
	state, ok := h.snapshot(client.DocID)
	if !ok {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling snapshot for doc %s: %v", client.DocID, err)
		return
	}
	msg, _ := json.Marshal(WSMessage{Type: SnapshotType, DocID: client.DocID, Payload: raw})

	select {
	case client.Send <- msg:
	default:
		logger.Sugar.Warnf("Client %s's send buffer was full during snapshot.", client.UserID)
	}
}

func (h *Hub) broadcastPresenceUpdate(docID string) {
	var userStatuses []UserStatus
	var clientsToSend []*Client

	h.mu.Lock()
	if _, ok := h.Presence[docID]; ok {
		userStatuses = make([]UserStatus, 0, len(h.Presence[docID]))
		for _, status := range h.Presence[docID] {
			userStatuses = append(userStatuses, status)
		}

		clientsToSend = make([]*Client, 0, len(h.Rooms[docID]))
		for client := range h.Rooms[docID] {
			clientsToSend = append(clientsToSend, client)
		}
	}
	h.mu.Unlock()

	if len(clientsToSend) == 0 {
		return
	}

	payload, err := json.Marshal(userStatuses)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling presence broadcast: %v", err)
		return
	}
	broadcastPayload, _ := json.Marshal(WSMessage{Type: PresenceUpdateType, DocID: docID, Payload: payload})

	for _, client := range clientsToSend {
		select {
		case client.Send <- broadcastPayload:
		default:
			// The pumps deal with unresponsive clients.
			logger.Sugar.Warnf("Client %s's send buffer was full during presence update.", client.UserID)
		}
	}
}
