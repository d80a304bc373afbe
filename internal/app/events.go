package app

import "deception/internal/domain"

// Wire event type tags. Every frame pushed to clients is one of these; player
// lists always carry the full authoritative list so a client that missed
// earlier events can resynchronize from any single one.
const (
	EventRoomState    = "room_state"
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventGameStarted  = "game_started"
)

type RoomStateEvent struct {
	Type    string          `json:"type"`
	Code    domain.RoomCode `json:"code"`
	Players []string        `json:"players"`
	Started bool            `json:"started"`
}

func NewRoomStateEvent(snap domain.RoomState) RoomStateEvent {
	return RoomStateEvent{Type: EventRoomState, Code: snap.Code, Players: snap.Players, Started: snap.Started}
}

type PlayerEvent struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type GameStartedEvent struct {
	Type    string          `json:"type"`
	Code    domain.RoomCode `json:"code"`
	Players []string        `json:"players"`
}
