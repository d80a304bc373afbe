package signal

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"deception/internal/app"
	"deception/internal/domain"
)

// normalizeCode uppercases what the client typed; codes are generated
// uppercase so the lookup stays case-insensitive.
func normalizeCode(raw string) domain.RoomCode {
	return domain.RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

func (ctl *Controller) handleJoin(s *session, data []byte) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Name string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(s.conn, "bad_payload")
		return
	}

	if ctl.Limiter != nil && !ctl.Limiter.Allow(s.sid) {
		log.Warn().Str("module", "signal").Str("sid", string(s.sid)).Msg("join rate limited")
		ctl.sendError(s.conn, "too many join attempts")
		return
	}

	raw := p.Name
	if raw == "" {
		raw = s.defaultName
	}
	name, err := domain.NormalizePlayerName(raw)
	if err != nil {
		ctl.sendError(s.conn, err.Error())
		return
	}

	code := normalizeCode(p.Room)
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Str("code", string(code)).Str("name", name).Msg("join")

	snap, err := ctl.Orch.JoinRoom(s.sid, code, name)
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctl.sendError(s.conn, "room not found")
		return
	case errors.Is(err, domain.ErrRoomStarted):
		ctl.sendError(s.conn, "room already started")
		return
	case err != nil:
		ctl.sendError(s.conn, "join failed")
		return
	}

	// Ack the joiner with the full authoritative state; the group already got
	// player_joined from the orchestrator.
	ctl.sendJSON(s.conn, app.NewRoomStateEvent(snap))
}

func (ctl *Controller) handleLeave(s *session, data []byte) {
	type leavePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(s.conn, "bad_payload")
		return
	}

	code := normalizeCode(p.Room)
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Str("code", string(code)).Msg("leave")

	ctl.Orch.LeaveRoom(s.sid, code)
	ctl.sendJSON(s.conn, map[string]any{
		"type": "left",
	})
}

func (ctl *Controller) handleStart(s *session, data []byte) {
	type startPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p startPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad start payload")
		ctl.sendError(s.conn, "bad_payload")
		return
	}

	code := normalizeCode(p.Room)
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Str("code", string(code)).Msg("start")

	snap, err := ctl.Orch.StartGame(code)
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		ctl.sendError(s.conn, "room not found")
		return
	case errors.Is(err, domain.ErrRoomStarted):
		ctl.sendError(s.conn, "room already started")
		return
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		ctl.sendError(s.conn, "not enough players")
		return
	case err != nil:
		ctl.sendError(s.conn, "start failed")
		return
	}

	ctl.sendJSON(s.conn, app.NewRoomStateEvent(snap))
}
