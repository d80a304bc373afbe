package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"deception/internal/adapters/signal"
	"deception/internal/app"
	"deception/internal/config"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware pins a stable identity to each browser; the signal
// endpoint uses it as the connection's session id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("DeceptionSessions", store))
	r.Use(ClientTokenMiddleware())

	h := &RoomHandlers{Orch: orch}
	limiter := signal.NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateWindow)
	ctl := signal.NewController(orch, limiter, cfg.ReadLimit, cfg.PingPeriod)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")

	api.POST("/rooms", h.Create)
	api.GET("/rooms/:code", h.Get)
	api.POST("/rooms/:code/start", h.Start)
	api.POST("/rooms/:code/join", h.Join)

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
