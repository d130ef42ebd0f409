// Package hub fans room change events out to subscribed websocket
// sessions. Events arrive on a per-room redis channel (published by the
// worker after the mutation has committed) and are relayed to every
// local client joined to that room.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/costantinodig/youdj-vote/internal/event"
	"github.com/costantinodig/youdj-vote/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Subscribers only listen,
	// so anything beyond a control frame is suspect.
	maxMessageSize = 512
)

// HubMessage is the internal hub queue item.
type HubMessage struct {
	Type   string // "register", "unregister"
	Client *Client
}

// Hub maintains the room-keyed client registry and the per-room redis
// subscriptions feeding it.
type Hub struct {
	messageChan chan HubMessage

	// map[roomCode]set of clients
	rooms   map[string]map[*Client]bool
	roomsMu sync.RWMutex

	// one redis subscription per room with local subscribers
	subs   map[string]*redis.PubSub
	subsMu sync.Mutex

	redisClient *redis.Client
	keyPrefix   string
	sync        *service.SyncService
}

func NewHub(syncService *service.SyncService, redisClient *redis.Client, keyPrefix string) *Hub {
	if syncService == nil {
		panic("SyncService cannot be nil for Hub")
	}
	if redisClient == nil {
		panic("redis client cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		rooms:       make(map[string]map[*Client]bool),
		subs:        make(map[string]*redis.PubSub),
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		sync:        syncService,
	}
}

// Run is the hub's main loop. Call from its own goroutine; it exits
// when messageChan is closed.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		default:
			log.Warnf("Hub: received unknown message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

// QueueMessage puts a message on the hub queue without blocking.
// Returns false when the queue is full.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// queueUnregister hands a client's unregister to the hub loop. Unlike
// QueueMessage it never drops the message: losing an unregister leaks
// the registry entry and keeps the room's redis subscription open, so
// after a grace period it blocks until the loop accepts it.
func (h *Hub) queueUnregister(client *Client) {
	msg := HubMessage{Type: "unregister", Client: client}
	select {
	case h.messageChan <- msg:
		return
	case <-time.After(1 * time.Second):
	}
	logrus.WithFields(logrus.Fields{
		"room_code":  client.roomCode,
		"session_id": client.sessionID,
	}).Warn("Hub message channel congested, blocking until unregister is accepted")
	h.messageChan <- msg
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	roomCode := client.RoomCode()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_code":  roomCode,
		"session_id": client.SessionID(),
	})

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[*Client]bool)
	}
	h.rooms[roomCode][client] = true
	h.roomsMu.Unlock()
	logCtx.Info("Client joined room channel")

	h.ensureSubscription(roomCode)
	go h.sendInitialSync(client)
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	roomCode := client.RoomCode()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_code":  roomCode,
		"session_id": client.SessionID(),
	})

	roomEmpty := false
	h.roomsMu.Lock()
	if roomClients, ok := h.rooms[roomCode]; ok {
		if _, exists := roomClients[client]; exists {
			delete(roomClients, client)
			close(client.send)
			if len(roomClients) == 0 {
				delete(h.rooms, roomCode)
				roomEmpty = true
			}
		}
	}
	h.roomsMu.Unlock()
	logCtx.Info("Client left room channel")

	if roomEmpty {
		h.dropSubscription(roomCode)
	}
}

// ensureSubscription opens the room's redis subscription on first local
// join and starts the relay goroutine.
func (h *Hub) ensureSubscription(roomCode string) {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	if _, ok := h.subs[roomCode]; ok {
		return
	}
	ps := h.redisClient.Subscribe(context.Background(), event.Channel(h.keyPrefix, roomCode))
	h.subs[roomCode] = ps
	go h.relay(roomCode, ps)
}

func (h *Hub) dropSubscription(roomCode string) {
	h.subsMu.Lock()
	ps, ok := h.subs[roomCode]
	if ok {
		delete(h.subs, roomCode)
	}
	h.subsMu.Unlock()
	if ok {
		// Closing ends the relay goroutine's range loop.
		if err := ps.Close(); err != nil {
			logrus.WithError(err).WithField("room_code", roomCode).Warn("Failed to close room subscription")
		}
	}
}

// relay forwards everything published on the room channel to the local
// clients. Runs until the subscription is closed.
func (h *Hub) relay(roomCode string, ps *redis.PubSub) {
	logCtx := logrus.WithField("room_code", roomCode)
	logCtx.Debug("Room subscription relay started")
	for msg := range ps.Channel() {
		h.broadcastLocal(roomCode, []byte(msg.Payload))
	}
	logCtx.Debug("Room subscription relay stopped")
}

// broadcastLocal delivers a message to every local client of the room.
// Non-blocking per client: a slow consumer loses the message, never
// stalls the relay.
func (h *Hub) broadcastLocal(roomCode string, message []byte) {
	// Sends happen under the read lock so a concurrent unregister
	// cannot close a channel mid-send; they are non-blocking, so the
	// lock is held only briefly.
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	for client := range h.rooms[roomCode] {
		select {
		case client.send <- message:
		default:
			logrus.WithFields(logrus.Fields{
				"room_code":  roomCode,
				"session_id": client.SessionID(),
			}).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// sendInitialSync pushes the room's current state to a new subscriber.
func (h *Hub) sendInitialSync(client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_code":  client.RoomCode(),
		"session_id": client.SessionID(),
	})

	// Background context: the sync outlives the upgrade request.
	snapshot, err := h.sync.RoomSync(context.Background(), client.RoomCode())
	if err != nil {
		logCtx.WithError(err).Error("Failed to build initial room sync")
		h.deliver(client, []byte(`{"type":"error","message":"failed to load room state"}`))
		return
	}

	syncMsg := map[string]interface{}{
		"type":     "sync",
		"roomCode": snapshot.RoomCode,
		"songs":    snapshot.Songs,
		"mini":     snapshot.Mini,
		"playing":  snapshot.Playing,
	}
	payload, err := json.Marshal(syncMsg)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal room sync")
		return
	}
	if h.deliver(client, payload) {
		logCtx.Debug("Initial room sync sent")
	} else {
		logCtx.Warn("Initial room sync dropped (client gone or channel full)")
	}
}

// deliver sends to one client if it is still registered. Same locking
// rationale as broadcastLocal.
func (h *Hub) deliver(client *Client, message []byte) bool {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	if !h.rooms[client.roomCode][client] {
		return false
	}
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// StopAllSubscriptions closes every room's redis subscription. Used
// during shutdown.
func (h *Hub) StopAllSubscriptions() {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for roomCode, ps := range h.subs {
		if err := ps.Close(); err != nil {
			logrus.WithError(err).WithField("room_code", roomCode).Warn("Failed to close room subscription")
		}
		delete(h.subs, roomCode)
	}
}
