// ABOUTME: Gin router and server for the ledger's HTTP surface
// ABOUTME: Wires record, summary, directive, chat and event stream routes
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harper/fuel-ledger/internal/coach"
	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/logger"
)

// DefaultHeartbeat is the interval between keep-alive comments on event streams
const DefaultHeartbeat = 15 * time.Second

type RouterConfig struct {
	Ledger      *ledger.Ledger
	Coach       *coach.Session
	Log         *logger.Logger
	CORSOrigins []string
	Heartbeat   time.Duration
}

// NewRouter builds the gin engine with every API route
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	h := NewHandler(cfg.Ledger, cfg.Coach, log)
	if cfg.Heartbeat > 0 {
		h.heartbeat = cfg.Heartbeat
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log.With("component", "http")))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/healthz", HealthCheck)

	api := r.Group("/api")
	{
		// Records
		api.GET("/food", h.ListFood)
		api.POST("/food", h.AddFood)
		api.DELETE("/food/:id", h.remove(ledger.KindFood))

		api.GET("/workouts", h.ListWorkouts)
		api.POST("/workouts", h.AddWorkout)
		api.DELETE("/workouts/:id", h.remove(ledger.KindWorkout))

		api.GET("/water", h.ListWater)
		api.POST("/water", h.AddWater)
		api.DELETE("/water/:id", h.remove(ledger.KindWater))

		api.GET("/weight", h.ListWeight)
		api.PUT("/weight/:date", h.PutWeight)
		api.DELETE("/weight/:date", h.removeParam(ledger.KindWeight, "date"))

		// Profile
		api.GET("/profile", h.GetProfile)
		api.PATCH("/profile", h.PatchProfile)
		api.DELETE("/profile", h.DeleteProfile)

		// Summaries
		api.GET("/summary/day", h.DaySummary)
		api.GET("/summary/week", h.WeekSummary)
		api.GET("/summary/month", h.MonthSummary)

		// Directive protocol and coach
		api.POST("/directives", h.ApplyDirectives)
		api.GET("/conversations", h.ListConversations)
		api.GET("/conversations/:id", h.GetConversation)
		api.DELETE("/conversations/:id", h.DeleteConversation)
		if cfg.Coach != nil {
			api.POST("/chat", h.Chat)
		}

		// Cross-surface changes (SSE)
		api.GET("/events", h.Events)
	}

	return r
}

// HealthCheck handles GET /healthz
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type Server struct {
	Engine *gin.Engine
	srv    *http.Server
}

// NewServer creates a server listening on addr
func NewServer(addr string, cfg RouterConfig) *Server {
	engine := NewRouter(cfg)
	return &Server{
		Engine: engine,
		srv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	// Requests inherit ctx so open event streams end on shutdown
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
