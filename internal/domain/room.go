// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomStarted      = errors.New("room already started")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrCodeExhausted    = errors.New("failed to generate unique room code after multiple attempts")
)

type RoomCode string

// RoomState is a point-in-time copy of one room. The caller owns it;
// mutating it never touches the registry.
type RoomState struct {
	Code    RoomCode `json:"code"`
	Players []string `json:"players"`
	Started bool     `json:"started"`
}
