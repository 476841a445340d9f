package ws

import "sync"

// Conn is the part of a socket.io connection the handlers need.
// socketio.Conn satisfies it.
type Conn interface {
	ID() string
	Emit(event string, v ...interface{})
	Join(room string)
	Leave(room string)
}

// Broadcaster fans an event out to every connection joined to a room.
// *socketio.Server satisfies it.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

type binding struct {
	playerID string
	roomID   string
}

// bindings maps sockets to seats and seats back to sockets.
type bindings struct {
	mu       sync.Mutex
	bySocket map[string]binding
	byPlayer map[string]Conn
}

func newBindings() *bindings {
	return &bindings{
		bySocket: make(map[string]binding),
		byPlayer: make(map[string]Conn),
	}
}

func (b *bindings) bind(c Conn, playerID, roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bySocket[c.ID()] = binding{playerID: playerID, roomID: roomID}
	b.byPlayer[playerID] = c
}

func (b *bindings) lookup(socketID string) (binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.bySocket[socketID]
	return v, ok
}

func (b *bindings) unbind(socketID string) (binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.bySocket[socketID]
	if !ok {
		return binding{}, false
	}
	delete(b.bySocket, socketID)
	if c := b.byPlayer[v.playerID]; c != nil && c.ID() == socketID {
		delete(b.byPlayer, v.playerID)
	}
	return v, true
}

func (b *bindings) conn(playerID string) Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byPlayer[playerID]
}
