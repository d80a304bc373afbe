package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"deception/internal/app"
	"deception/internal/domain"
)

// RoomHandlers is the stateless command surface over the orchestrator.
// Reads serve as the polling fallback for clients without a live channel.
type RoomHandlers struct {
	Orch *app.Orchestrator
}

type createRoomRequest struct {
	Host string `json:"host" binding:"required"`
}

func (h *RoomHandlers) Create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid host"})
		return
	}
	host, err := domain.NormalizePlayerName(req.Host)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.Orch.CreateRoom(host)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}

	// Remember the host's display name so a join over the signal channel can
	// omit it.
	sess := sessions.Default(c)
	sess.Set("player_name", host)
	if err := sess.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
	}

	c.JSON(http.StatusCreated, gin.H{"code": code})
}

func (h *RoomHandlers) Get(c *gin.Context) {
	snap, err := h.Orch.GetRoom(codeParam(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *RoomHandlers) Start(c *gin.Context) {
	snap, err := h.Orch.StartGame(codeParam(c))
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	case errors.Is(err, domain.ErrRoomStarted), errors.Is(err, domain.ErrNotEnoughPlayers):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Msg("start game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start game"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Join exists only to point callers at the signal channel. A join that does
// not establish addressability would leave the newcomer invisible to every
// later broadcast, silently desyncing the other clients' views.
func (h *RoomHandlers) Join(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{
		"error": "joining requires a live signal connection",
		"ws":    "/api/ws",
	})
}

func codeParam(c *gin.Context) domain.RoomCode {
	return domain.RoomCode(strings.ToUpper(strings.TrimSpace(c.Param("code"))))
}
