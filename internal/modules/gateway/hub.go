package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	pkgredis "github.com/schoolboard/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	RoomAdmin  = "admin"
	RoomPublic = "public"

	namespaceAdmin = "/admin"
	namespaceWeb   = "/web"

	redisChanAdmin  = "board:gateway:admin"
	redisChanPublic = "board:gateway:public"
)

// Events pushed through the gateway. Public clients refetch the named
// collection on CollectionUpdated; the dashboard mirrors commits from
// other sessions the same way.
const (
	EventCollectionUpdated = "COLLECTION_UPDATED"
	EventSettingsUpdated   = "SETTINGS_UPDATED"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub manages socket.io namespaces and cross-instance fan-out over
// Redis pub/sub.
type Hub struct {
	mu        sync.RWMutex
	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc                  *pkgredis.Client
	logger              *zap.Logger
	sio                 *socketio.Server
	adminTokenValidator func(string) bool
}

func NewHub(rc *pkgredis.Client, logger *zap.Logger, adminTokenValidator func(string) bool) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sidRoom:             make(map[string]string),
		roomCount:           make(map[string]int),
		broadcast:           make(chan Message, 256),
		register:            make(chan clientMeta, 256),
		unregister:          make(chan clientMeta, 256),
		rc:                  rc,
		logger:              logger,
		sio:                 sio,
		adminTokenValidator: adminTokenValidator,
	}
	h.registerNamespaces()
	return h
}

// Run starts the hub loop and the Redis subscriber.
func (h *Hub) Run(ctx context.Context) {
	go h.subscribeRedis(ctx)

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
			h.publish(ctx, msg)
		}
	}
}

func (h *Hub) publish(ctx context.Context, msg Message) {
	if h.rc == nil {
		return
	}
	channel := redisChanPublic
	if msg.Room == RoomAdmin {
		channel = redisChanAdmin
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rc.Publish(ctx, channel, string(data)); err != nil && h.logger != nil {
		h.logger.Warn("gateway publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

// subscribeRedis mirrors broadcasts from other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	if h.rc == nil {
		return
	}
	pubsub := h.rc.Subscribe(ctx, redisChanAdmin, redisChanPublic)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if oldRoom, ok := h.sidRoom[c.sid]; ok {
		if oldRoom == c.room {
			return
		}
		if h.roomCount[oldRoom] > 0 {
			h.roomCount[oldRoom]--
		}
	}
	h.sidRoom[c.sid] = c.room
	h.roomCount[c.room]++
}

func (h *Hub) unregisterClient(c clientMeta) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.sidRoom[c.sid]
	if !ok {
		return
	}
	delete(h.sidRoom, c.sid)
	if h.roomCount[room] > 0 {
		h.roomCount[room]--
	}
}

func (h *Hub) deliver(msg Message) {
	switch msg.Room {
	case RoomAdmin:
		h.emitNamespace(namespaceAdmin, msg)
	case RoomPublic:
		h.emitNamespace(namespaceWeb, msg)
	case "":
		h.emitNamespace(namespaceAdmin, msg)
		h.emitNamespace(namespaceWeb, msg)
	}
}

func (h *Hub) emitNamespace(nsp string, msg Message) {
	h.sio.Of(nsp, nil).Emit("message", envelope{Type: msg.Event, Data: msg.Payload})
}

// Broadcast sends an event to the given room, or both rooms if empty.
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	h.broadcast <- Message{Event: event, Payload: payload, Room: room}
}

// BroadcastCollectionUpdated tells every client one collection changed.
func (h *Hub) BroadcastCollectionUpdated(collection string) {
	h.Broadcast(EventCollectionUpdated, map[string]string{"collection": collection}, "")
}

// ClientCount returns connected clients, optionally filtered by room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room == "" {
		return len(h.sidRoom)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}
