package core

import "deception/internal/domain"

// Frame is a marshaled wire event ready for a transport write.
type Frame []byte

type SessionID string

// SignalConnection abstracts the messaging transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// RoomStore owns all room state and its mutation rules. Every method is safe
// for concurrent use; returned RoomStates are independent snapshots.
type RoomStore interface {
	Create(host string) (domain.RoomCode, error)
	Get(code domain.RoomCode) (domain.RoomState, error)
	Join(code domain.RoomCode, name string) (domain.RoomState, error)
	Start(code domain.RoomCode) (domain.RoomState, error)
	Leave(code domain.RoomCode, name string) (domain.RoomState, bool, error)
	Remove(code domain.RoomCode)
}

// Gateway tracks which live connection belongs to which room group and fans
// events out to a group. It is a delivery-addressing mechanism only and never
// the source of truth for the player list.
type Gateway interface {
	Bind(sid SessionID, conn SignalConnection)
	Unbind(sid SessionID)

	AddToGroup(sid SessionID, code domain.RoomCode, name string)
	RemoveFromGroup(sid SessionID, code domain.RoomCode)
	RoomsOf(sid SessionID) map[domain.RoomCode]string
	Conn(sid SessionID) (SignalConnection, bool)

	// Broadcast delivers f to every member of code's group, best effort.
	// Unreachable members are skipped and reported, never failing the rest.
	Broadcast(code domain.RoomCode, f Frame) PublishResult
}
