package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"deception/internal/core"
	"deception/internal/domain"
	"deception/internal/idgen"
)

const maxCodeAttempts = 10

// roomEntry is one room's mutable state. players/started/removed are guarded
// by mu; the registry lock is acquired first whenever both are needed.
// removed marks an entry that left the registry map, so an operation that
// resolved the entry just before deletion cannot mutate an orphan.
type roomEntry struct {
	mu      sync.Mutex
	code    domain.RoomCode
	players []string
	started bool
	removed bool
}

func (e *roomEntry) snapshotLocked() domain.RoomState {
	players := make([]string, len(e.players))
	copy(players, e.players)
	return domain.RoomState{Code: e.code, Players: players, Started: e.started}
}

// RoomStore is the process-wide in-memory registry of rooms, keyed by code.
// Rooms lock independently, so traffic to different rooms never contends.
type RoomStore struct {
	mu         sync.RWMutex
	rooms      map[domain.RoomCode]*roomEntry
	minPlayers int
	newCode    func() (string, error)
}

func NewRoomStore(minPlayers int) *RoomStore {
	return &RoomStore{
		rooms:      make(map[domain.RoomCode]*roomEntry),
		minPlayers: minPlayers,
		newCode:    idgen.NewCode,
	}
}

var _ core.RoomStore = (*RoomStore)(nil)

// Create allocates a fresh code and inserts a room holding only the host.
// Code collisions are retried; the insert happens under the registry lock so
// two racing Creates can never claim the same code.
func (s *RoomStore) Create(host string) (domain.RoomCode, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		raw, err := s.newCode()
		if err != nil {
			return "", err
		}
		code := domain.RoomCode(raw)

		s.mu.Lock()
		if _, taken := s.rooms[code]; taken {
			s.mu.Unlock()
			continue
		}
		s.rooms[code] = &roomEntry{code: code, players: []string{host}}
		s.mu.Unlock()

		log.Info().Str("module", "app.store").Str("code", raw).Str("host", host).Msg("room created")
		return code, nil
	}
	return "", domain.ErrCodeExhausted
}

func (s *RoomStore) entry(code domain.RoomCode) (*roomEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rooms[code]
	return e, ok
}

func (s *RoomStore) Get(code domain.RoomCode) (domain.RoomState, error) {
	e, ok := s.entry(code)
	if !ok {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}
	return e.snapshotLocked(), nil
}

// Join appends name to the room unless already present. Started rooms accept
// no further joins. Returns the post-mutation snapshot so the caller can
// broadcast authoritative state without a second read.
func (s *RoomStore) Join(code domain.RoomCode, name string) (domain.RoomState, error) {
	e, ok := s.entry(code)
	if !ok {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}
	if e.started {
		return domain.RoomState{}, domain.ErrRoomStarted
	}
	present := false
	for _, p := range e.players {
		if p == name {
			present = true
			break
		}
	}
	if !present {
		e.players = append(e.players, name)
		log.Info().Str("module", "app.store").Str("code", string(code)).Str("player", name).Msg("player joined")
	}
	return e.snapshotLocked(), nil
}

// Start flips started exactly once. When two calls race, the room lock
// serializes them and the loser sees ErrRoomStarted.
func (s *RoomStore) Start(code domain.RoomCode) (domain.RoomState, error) {
	e, ok := s.entry(code)
	if !ok {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return domain.RoomState{}, domain.ErrRoomNotFound
	}
	if e.started {
		return domain.RoomState{}, domain.ErrRoomStarted
	}
	if len(e.players) < s.minPlayers {
		return domain.RoomState{}, domain.ErrNotEnoughPlayers
	}
	e.started = true
	log.Info().Str("module", "app.store").Str("code", string(code)).Int("players", len(e.players)).Msg("game started")
	return e.snapshotLocked(), nil
}

// Leave removes name from a not-yet-started room; once started the player
// list is frozen and Leave only reports current state. Removing the last
// player removes the room, reported via the bool.
func (s *RoomStore) Leave(code domain.RoomCode, name string) (domain.RoomState, bool, error) {
	e, ok := s.entry(code)
	if !ok {
		return domain.RoomState{}, false, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return domain.RoomState{}, false, domain.ErrRoomNotFound
	}
	if !e.started {
		for i, p := range e.players {
			if p == name {
				e.players = append(e.players[:i], e.players[i+1:]...)
				log.Info().Str("module", "app.store").Str("code", string(code)).Str("player", name).Msg("player left")
				break
			}
		}
	}
	snap := e.snapshotLocked()
	maybeEmpty := len(e.players) == 0
	e.mu.Unlock()

	if maybeEmpty && s.removeIfEmpty(code) {
		return snap, true, nil
	}
	return snap, false, nil
}

// Remove deletes the room; subsequent Get/Join/Start see not-found. The entry
// is marked removed under its own lock, so an operation that resolved it just
// before the delete fails instead of mutating an orphan.
func (s *RoomStore) Remove(code domain.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rooms[code]
	if !ok {
		return
	}
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	delete(s.rooms, code)
	log.Info().Str("module", "app.store").Str("code", string(code)).Msg("room removed")
}

// removeIfEmpty re-checks emptiness under both locks, registry first, so a
// join landing between Leave's unlock and here is never thrown away.
func (s *RoomStore) removeIfEmpty(code domain.RoomCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rooms[code]
	if !ok {
		return false
	}
	e.mu.Lock()
	empty := len(e.players) == 0
	if empty {
		e.removed = true
	}
	e.mu.Unlock()
	if !empty {
		return false
	}
	delete(s.rooms, code)
	log.Info().Str("module", "app.store").Str("code", string(code)).Msg("empty room removed")
	return true
}
