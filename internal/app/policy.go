package app

import (
	"deception/internal/core"
	"deception/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a group member whose connection could not
// take a broadcast frame.
type Policy interface {
	OnBackPressure(code domain.RoomCode, sid core.SessionID) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(code domain.RoomCode, sid core.SessionID) BackpressureAction {
	return KickMember
}
