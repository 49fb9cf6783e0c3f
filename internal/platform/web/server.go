// Package web serves the spectator API: shift records, careers and the
// live board over HTTP, plus a websocket feed of live board events.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/deep-stoker/internal/career"
	"github.com/vovakirdan/deep-stoker/internal/live"
	"github.com/vovakirdan/deep-stoker/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Store is the read side of the database the API serves. *storage.Store
// implements it.
type Store interface {
	TopShifts(limit int) ([]career.ShiftRecord, error)
	RecentShifts(player string, limit int) ([]career.ShiftRecord, error)
	PlayerStats(player string) (*storage.PlayerStats, error)
	LoadProfile(player string) (career.Profile, error)
	TopCareers(limit int) ([]storage.CareerSummary, error)
}

var _ Store = (*storage.Store)(nil)

// Server is the spectator HTTP server.
type Server struct {
	addr   string
	store  Store
	board  *live.Board
	hub    *Hub
	router *gin.Engine
	logger *log.Logger
}

// NewServer builds the router. store may be nil, in which case the record
// and career endpoints answer 503.
func NewServer(addr string, store Store, board *live.Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		addr:   addr,
		store:  store,
		board:  board,
		hub:    NewHub(board, logger),
		logger: logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/records", s.records)
	api.GET("/careers", s.careers)
	api.GET("/careers/:player", s.careerDetail)
	api.GET("/live", s.liveShifts)
	api.GET("/live/:id", s.liveShift)

	r.GET("/ws", s.hub.Serve)

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe runs the hub and the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request through the server logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"live_shifts": len(s.board.Live()),
		"spectators":  s.hub.Clients(),
	})
}

// records lists the best shifts, or a player's newest shifts with ?player=.
func (s *Server) records(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	var (
		shifts []career.ShiftRecord
		err    error
	)
	if player := c.Query("player"); player != "" {
		shifts, err = s.store.RecentShifts(player, limit)
	} else {
		shifts, err = s.store.TopShifts(limit)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if shifts == nil {
		shifts = []career.ShiftRecord{}
	}
	c.JSON(http.StatusOK, shifts)
}

func (s *Server) careers(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	out, err := s.store.TopCareers(limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if out == nil {
		out = []storage.CareerSummary{}
	}
	c.JSON(http.StatusOK, out)
}

// careerResponse is the body of GET /api/careers/:player.
type careerResponse struct {
	Profile  career.Profile       `json:"profile"`
	Progress career.RankProgress  `json:"progress"`
	Stats    *storage.PlayerStats `json:"stats"`
	Recent   []career.ShiftRecord `json:"recent"`
}

func (s *Server) careerDetail(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	player := c.Param("player")

	p, err := s.store.LoadProfile(player)
	if errors.Is(err, career.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no career for " + player})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	stats, err := s.store.PlayerStats(player)
	if err != nil {
		s.fail(c, err)
		return
	}
	recent, err := s.store.RecentShifts(player, 10)
	if err != nil {
		s.fail(c, err)
		return
	}
	if recent == nil {
		recent = []career.ShiftRecord{}
	}

	c.JSON(http.StatusOK, careerResponse{
		Profile:  p,
		Progress: career.Progress(p.TotalCredits),
		Stats:    stats,
		Recent:   recent,
	})
}

func (s *Server) liveShifts(c *gin.Context) {
	c.JSON(http.StatusOK, s.board.Live())
}

func (s *Server) liveShift(c *gin.Context) {
	st, ok := s.board.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "shift is not running"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "records database unavailable"})
		return false
	}
	return true
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// parseLimit reads ?limit=, defaulting to 20 and capping at 100.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, true
}
