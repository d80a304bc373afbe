package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump owns the connection's read side. Its defer is the implicit-leave
// path: an abrupt disconnect tears down group membership exactly like an
// explicit leave would.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, s *session) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump closing")
		s.conn.Close()
		ctl.Orch.DropSession(s.sid)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(s.sid)
		}
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := s.conn.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(s.sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(s, data)
		}
	}
}

func (ctl *Controller) handleSignal(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(s, data)
	case "leave":
		ctl.handleLeave(s, data)
	case "start":
		ctl.handleStart(s, data)
	case "ping":
		ctl.handlePing(s.conn)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}
