package api

import (
	"fmt"
	"time"

	"dashview/config"
	"dashview/database"
	"dashview/monitoring"
	"dashview/player"
	"dashview/probe"
	"dashview/registry"

	"github.com/gin-gonic/gin"
)

// Server exposes the viewer's command/state seam to the browser UI. The
// UI never talks to playback handles directly; every intent goes through
// the controller.
type Server struct {
	config     config.Config
	db         database.Database
	registry   *registry.Registry
	controller *player.Controller
	monitor    *monitoring.Monitor
	prober     probe.Prober

	// filterWait bounds how long a filter request waits before concluding
	// it was superseded by a newer one
	filterWait time.Duration
}

func NewServer(cfg config.Config, db database.Database, reg *registry.Registry, controller *player.Controller, monitor *monitoring.Monitor, prober probe.Prober) *Server {
	debounce := time.Duration(cfg.FilterDebounceMs) * time.Millisecond
	return &Server{
		config:     cfg,
		db:         db,
		registry:   reg,
		controller: controller,
		monitor:    monitor,
		prober:     prober,
		filterWait: 3*debounce + 200*time.Millisecond,
	}
}

func (s *Server) Start() {
	r := gin.Default()
	s.setupCORS(r)
	s.setupRoutes(r)
	portAddr := ":" + s.config.ServerPort
	fmt.Printf("Starting API server on %s\n", portAddr)
	r.Run(portAddr)
}

func (s *Server) setupCORS(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})
}

func (s *Server) setupRoutes(r *gin.Engine) {
	// Static media mount so the browser can load segment files
	r.Static("/media", s.config.LibraryRoot)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/folders", s.listFolders)
		api.POST("/folders/rescan", s.rescanFolders)
		api.POST("/session", s.openSession)
		api.DELETE("/session", s.closeSession)
		api.GET("/session/state", s.getState)
		api.POST("/session/toggle", s.togglePlayPause)
		api.POST("/session/seek", s.seek)
		api.POST("/session/rate", s.setRate)
		api.POST("/session/jump-to-event", s.jumpToEvent)
		api.GET("/system_health", s.getSystemHealth)
	}
}

// Router builds a configured engine without binding a port, for tests
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	s.setupCORS(r)
	s.setupRoutes(r)
	return r
}
