// Package api provides the HTTP surface. It translates requests into typed
// commands for the bus and serves the read facades; the core never depends on
// it.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/config"
	"github.com/lvassor/my-club/internal/query"
	"github.com/lvassor/my-club/internal/session"
	"github.com/lvassor/my-club/internal/ws"
)

// Server wraps the Echo server with application dependencies.
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	bus      *bus.Bus
	sessions *session.Store
	public   *query.PublicQueries
	club     *query.ClubQueries
}

// NewServer creates the API server with all dependencies.
func NewServer(
	cfg *config.Config,
	messageBus *bus.Bus,
	sessions *session.Store,
	public *query.PublicQueries,
	club *query.ClubQueries,
	wsHandler *ws.Handler,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.LogFormat == "json" {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: `{"time":"${time_rfc3339}","id":"${id}","method":"${method}","uri":"${uri}","status":${status},"latency":"${latency_human}"}` + "\n",
		}))
	} else {
		e.Use(middleware.Logger())
	}
	e.HTTPErrorHandler = customErrorHandler

	s := &Server{
		echo:     e,
		config:   cfg,
		bus:      messageBus,
		sessions: sessions,
		public:   public,
		club:     club,
	}
	s.registerRoutes(wsHandler)
	return s
}

func (s *Server) registerRoutes(wsHandler *ws.Handler) {
	e := s.echo

	e.GET("/healthz", s.health)

	// Session bootstrap. Token verification happens upstream; this endpoint
	// only records the authenticated identity.
	e.POST("/auth/session", s.createSession)

	authed := e.Group("", s.sessionMiddleware)
	authed.POST("/auth/session/club", s.bindClub)
	authed.DELETE("/auth/session", s.deleteSession)

	authed.GET("/clubs", s.listClubs)
	authed.GET("/clubs/my-clubs", s.listMyClubs)
	authed.POST("/clubs", s.createClub)
	authed.GET("/clubs/:club_id", s.getClub)
	authed.POST("/clubs/:club_id/owner", s.changeClubOwner)
	authed.POST("/clubs/:club_id/coaches", s.addCoach)

	authed.GET("/players/:player_id/card", s.getPlayerCard)
	authed.POST("/clubs/:club_id/players", s.registerPlayer)
	authed.GET("/clubs/:club_id/players", s.listPlayers)

	authed.GET("/clubs/:club_id/collectives", s.listCollectives)
	authed.POST("/clubs/:club_id/collectives", s.createCollective)
	authed.POST("/clubs/:club_id/collectives/:collective_id/players", s.addPlayerToCollective)
	authed.DELETE("/clubs/:club_id/collectives/:collective_id/players/:player_id", s.removePlayerFromCollective)
	authed.GET("/clubs/:club_id/collectives/:collective_id/available-players", s.listPlayersNotInCollective)

	authed.GET("/clubs/:club_id/training-sessions", s.listTrainingSessions)
	authed.POST("/clubs/:club_id/training-sessions", s.createTrainingSession)
	authed.GET("/clubs/:club_id/training-sessions/:session_id", s.getTrainingSession)
	authed.POST("/clubs/:club_id/training-sessions/:session_id/cancel", s.cancelTrainingSession)
	authed.PUT("/clubs/:club_id/training-sessions/:session_id/players/:player_id/status", s.changePlayerStatus)
	authed.DELETE("/clubs/:club_id/training-sessions/:session_id/players/:player_id", s.removePlayerFromSession)
	authed.GET("/clubs/:club_id/training-sessions/:session_id/unmarked-players", s.listPlayersWithoutStatus)

	authed.GET("/ws/:club_id", wsHandler.Serve)
}

// Start runs the server on the configured port.
func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%d", s.config.Port))
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// healthz endpoint for orchestration probes.
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
