package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"deception/internal/core"
	"deception/internal/domain"
)

// Orchestrator is the single command surface over the store and the gateway.
// Every mutation goes through the store first; broadcasts use the snapshot
// the mutating call returned, so no store lock is ever held during fan-out.
type Orchestrator struct {
	Store   core.RoomStore
	Gateway core.Gateway
	Policy  Policy
}

func (o *Orchestrator) CreateRoom(host string) (domain.RoomCode, error) {
	return o.Store.Create(host)
}

func (o *Orchestrator) GetRoom(code domain.RoomCode) (domain.RoomState, error) {
	return o.Store.Get(code)
}

// JoinRoom mutates the room, makes sid addressable for future events, then
// tells the whole group who is in the room now.
func (o *Orchestrator) JoinRoom(sid core.SessionID, code domain.RoomCode, name string) (domain.RoomState, error) {
	snap, err := o.Store.Join(code, name)
	if err != nil {
		return domain.RoomState{}, err
	}
	o.Gateway.AddToGroup(sid, code, name)
	o.publish(code, PlayerEvent{Type: EventPlayerJoined, Name: name, Players: snap.Players})
	return snap, nil
}

// StartGame flips the room and pushes game_started to the group; connected
// clients only learn the game began through this event, pollers on their
// next read.
func (o *Orchestrator) StartGame(code domain.RoomCode) (domain.RoomState, error) {
	snap, err := o.Store.Start(code)
	if err != nil {
		return domain.RoomState{}, err
	}
	o.publish(code, GameStartedEvent{Type: EventGameStarted, Code: snap.Code, Players: snap.Players})
	return snap, nil
}

// LeaveRoom drops sid from the group and, for a not-yet-started room, removes
// the player from the list. No-op when sid never joined code.
func (o *Orchestrator) LeaveRoom(sid core.SessionID, code domain.RoomCode) {
	name, member := o.Gateway.RoomsOf(sid)[code]
	o.Gateway.RemoveFromGroup(sid, code)
	if !member {
		return
	}
	snap, removed, err := o.Store.Leave(code, name)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Str("code", string(code)).Msg("leave")
		return
	}
	if !removed {
		o.publish(code, PlayerEvent{Type: EventPlayerLeft, Name: name, Players: snap.Players})
	}
}

// DropSession is the implicit leave on disconnect: every membership is torn
// down as if the client had sent leave, then the session unbinds.
func (o *Orchestrator) DropSession(sid core.SessionID) {
	for code := range o.Gateway.RoomsOf(sid) {
		o.LeaveRoom(sid, code)
	}
	o.Gateway.Unbind(sid)
}

func (o *Orchestrator) publish(code domain.RoomCode, v any) {
	f, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("marshal event")
		return
	}
	res := o.Gateway.Broadcast(code, core.Frame(f))
	if o.Policy == nil {
		return
	}
	for _, sid := range res.Dropped {
		switch o.Policy.OnBackPressure(code, sid) {
		case KickMember:
			o.Gateway.RemoveFromGroup(sid, code)
			if conn, ok := o.Gateway.Conn(sid); ok {
				conn.Close()
			}
			log.Warn().Str("module", "app.orchestrator").Str("sid", string(sid)).Str("code", string(code)).Msg("kicked slow member")
		case NoAction, DropFrame:
		}
	}
}
