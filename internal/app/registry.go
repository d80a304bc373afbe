package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"deception/internal/core"
	"deception/internal/domain"
)

// sessionEntry tracks one live connection and the room groups it belongs to,
// keyed by code, holding the name the player joined under.
type sessionEntry struct {
	Conn  core.SignalConnection
	Rooms map[domain.RoomCode]string
}

// Registry is the session gateway: connection <-> room-group membership plus
// the broadcast fan-out. It only addresses deliveries; the RoomStore stays
// the source of truth for who is in a room.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

var _ core.Gateway = (*Registry)(nil)

func (r *Registry) Bind(sid core.SessionID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		Conn:  conn,
		Rooms: make(map[domain.RoomCode]string),
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

// AddToGroup registers sid in code's group; re-adding only refreshes the name.
func (r *Registry) AddToGroup(sid core.SessionID, code domain.RoomCode, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return
	}
	e.Rooms[code] = name
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("code", string(code)).Msg("added to group")
}

// RemoveFromGroup is a no-op for non-members.
func (r *Registry) RemoveFromGroup(sid core.SessionID, code domain.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		delete(e.Rooms, code)
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("code", string(code)).Msg("removed from group")
	}
}

// RoomsOf returns a copy of sid's memberships (code -> joined-as name).
func (r *Registry) RoomsOf(sid core.SessionID) map[domain.RoomCode]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make(map[domain.RoomCode]string, len(e.Rooms))
	for code, name := range e.Rooms {
		out[code] = name
	}
	return out
}

func (r *Registry) Conn(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Broadcast delivers f to every member of code's group. A member whose
// connection is gone or backpressured is skipped and reported as dropped;
// delivery to the rest always proceeds.
func (r *Registry) Broadcast(code domain.RoomCode, f core.Frame) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := core.PublishResult{}
	for sid, e := range r.sessions {
		if _, member := e.Rooms[code]; !member {
			continue
		}
		if err := e.Conn.TrySend(f); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.registry").Str("code", string(code)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
