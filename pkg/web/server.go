// Package web serves the sorting dashboard: REST queries, operator
// commands and live websocket feeds.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/hub"
	"github.com/sortarm/go-sortarm/pkg/stats"
	"github.com/sortarm/go-sortarm/pkg/system"
)

// CommandSink queues operator commands for the driver loop.
// *system.System satisfies it.
type CommandSink interface {
	Enqueue(cmd system.Command) error
}

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

const maxLogBuffer = 500

// Server is the dashboard server. It implements system.Publisher, so
// the driver loop pushes each tick's snapshot and camera frame here.
type Server struct {
	app  *fiber.App
	port string

	sink CommandSink
	rec  *stats.Recorder

	// latest is the last published snapshot, served to REST queries.
	mu     sync.RWMutex
	latest system.StatusSnapshot

	logs   []LogEntry
	logsMu sync.RWMutex

	statusHub *hub.Hub
	cameraHub *hub.Hub
	logHub    *hub.Hub
}

// NewServer creates the dashboard server.
func NewServer(port string, sink CommandSink, rec *stats.Recorder) *Server {
	s := &Server{
		port:      port,
		sink:      sink,
		rec:       rec,
		logs:      make([]LogEntry, 0, maxLogBuffer),
		statusHub: hub.New("status"),
		cameraHub: hub.New("camera"),
		logHub:    hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Sortarm Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/objects", s.handleObjects)
	api.Get("/stats", s.handleStats)
	api.Get("/history", s.handleHistory)
	api.Post("/select/:id", s.handleSelect)
	api.Post("/clear", s.handleClear)
	api.Post("/pick", s.handlePick)
	api.Post("/batch", s.handleBatch)
	api.Post("/abort", s.handleAbort)
	api.Post("/stats/reset", s.handleStatsReset)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// Start runs the hubs and blocks serving HTTP.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.cameraHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync runs the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server stopped", "error", err)
		}
	}()
}

// PublishStatus stores the snapshot for REST queries and broadcasts it
// on the status feed.
func (s *Server) PublishStatus(snap system.StatusSnapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	if err := s.statusHub.BroadcastJSON(snap); err != nil {
		log.Warn("status broadcast failed", "error", err)
	}
}

// PublishFrame broadcasts an annotated JPEG frame on the camera feed.
func (s *Server) PublishFrame(jpeg []byte) {
	s.cameraHub.BroadcastBinary(jpeg)
}

// PublishLog forwards a driver event line to the dashboard log feed.
func (s *Server) PublishLog(logType, message string) {
	s.AddLog(logType, message)
}

// AddLog appends a dashboard log line and broadcasts it live.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogBuffer {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// snapshot returns the latest published state.
func (s *Server) snapshot() system.StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
