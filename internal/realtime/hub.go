package realtime

// Event is the room-scoped envelope pushed to live sessions. Each broadcast
// carries the full current state (e.g. the whole serialized queue), never a
// diff, so a client can always replace what it has.
type Event struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventSystem       = "system"
	EventQueueUpdated = "queueUpdated"
	EventVoteUpdated  = "voteUpdated"
	EventMessage      = "message"
)

type subscription struct {
	client *Client
	roomID string
}

type envelope struct {
	roomID string
	data   []byte
}

// Hub owns the per-room subscriber registry and fans events out to every
// session subscribed to the event's room. All registry mutation happens on
// the Run goroutine, so no locks are needed. A connection may be subscribed
// to any number of rooms.
type Hub struct {
	// roomID -> subscribed clients
	rooms map[string]map[*Client]bool
	// client -> roomIDs it is subscribed to
	clients map[*Client]map[string]bool

	broadcast   chan envelope
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
}

func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clients:     make(map[*Client]map[string]bool),
		broadcast:   make(chan envelope, 64),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = make(map[string]bool)

		case client := <-h.unregister:
			h.drop(client)

		case sub := <-h.subscribe:
			if rooms, ok := h.clients[sub.client]; ok {
				rooms[sub.roomID] = true
				if h.rooms[sub.roomID] == nil {
					h.rooms[sub.roomID] = make(map[*Client]bool)
				}
				h.rooms[sub.roomID][sub.client] = true
			}

		case sub := <-h.unsubscribe:
			if rooms, ok := h.clients[sub.client]; ok {
				delete(rooms, sub.roomID)
			}
			h.removeFromRoom(sub.client, sub.roomID)

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.roomID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer: drop it rather than block the room.
					h.drop(client)
				}
			}
		}
	}
}

// Broadcast delivers data to every session subscribed to roomID. Fire and
// forget: no subscribers is not an error.
func (h *Hub) Broadcast(roomID string, data []byte) {
	h.broadcast <- envelope{roomID: roomID, data: data}
}

func (h *Hub) drop(client *Client) {
	rooms, ok := h.clients[client]
	if !ok {
		return
	}
	for roomID := range rooms {
		h.removeFromRoom(client, roomID)
	}
	delete(h.clients, client)
	close(client.send)
	_ = client.conn.Close()
}

func (h *Hub) removeFromRoom(client *Client, roomID string) {
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}
