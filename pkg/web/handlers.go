package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/hub"
	"github.com/sortarm/go-sortarm/pkg/system"
)

// handleStatus returns the latest published snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

// handleObjects returns just the tracked objects.
func (s *Server) handleObjects(c *fiber.Ctx) error {
	snap := s.snapshot()
	return c.JSON(fiber.Map{
		"frame":   snap.Frame,
		"objects": snap.Objects,
	})
}

// handleStats returns the aggregated sorting statistics.
func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.rec.Snapshot())
}

// handleHistory returns recent finished missions, most recent first.
// ?n= limits the count.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	n, _ := strconv.Atoi(c.Query("n"))
	return c.JSON(s.rec.History(n))
}

// enqueue queues a command for the driver loop and answers 202. The
// handler never touches core state directly.
func (s *Server) enqueue(c *fiber.Ctx, cmd system.Command) error {
	if err := s.sink.Enqueue(cmd); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"queued": cmd.Kind.String(),
	})
}

// handleSelect marks a track as the operator's target.
func (s *Server) handleSelect(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid track id",
		})
	}
	return s.enqueue(c, system.Command{Kind: system.CommandSelect, Target: id})
}

// handleClear drops the current selection.
func (s *Server) handleClear(c *fiber.Ctx) error {
	return s.enqueue(c, system.Command{Kind: system.CommandClear})
}

// PickRequest optionally names a target directly, bypassing selection.
type PickRequest struct {
	Target string `json:"target"`
}

// handlePick starts a mission for the selected (or named) target.
func (s *Server) handlePick(c *fiber.Ctx) error {
	var req PickRequest
	cmd := system.Command{Kind: system.CommandPick}
	if err := c.BodyParser(&req); err == nil && req.Target != "" {
		id, err := uuid.Parse(req.Target)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid track id",
			})
		}
		cmd.Target = id
	}
	return s.enqueue(c, cmd)
}

// BatchRequest restricts a batch to one color. Empty means everything.
type BatchRequest struct {
	Color string `json:"color"`
}

// handleBatch queues missions for every matching object.
func (s *Server) handleBatch(c *fiber.Ctx) error {
	var req BatchRequest
	c.BodyParser(&req)
	return s.enqueue(c, system.Command{
		Kind:  system.CommandBatch,
		Color: colorspec.Color(req.Color),
	})
}

// handleAbort cancels the in-flight mission and drops queued targets.
func (s *Server) handleAbort(c *fiber.Ctx) error {
	return s.enqueue(c, system.Command{Kind: system.CommandAbort})
}

// handleStatsReset zeroes the statistics recorder.
func (s *Server) handleStatsReset(c *fiber.Ctx) error {
	return s.enqueue(c, system.Command{Kind: system.CommandResetStats})
}

// handleStatusWS streams the per-tick snapshot.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Send the current state before joining the broadcast feed.
	c.WriteJSON(s.snapshot())
	hub.NewClient(s.statusHub, c).Run()
}

// handleCameraWS streams annotated JPEG frames.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}

// handleLogsWS streams dashboard log lines.
func (s *Server) handleLogsWS(c *websocket.Conn) {
	s.logsMu.RLock()
	for _, entry := range s.logs {
		c.WriteJSON(entry)
	}
	s.logsMu.RUnlock()
	hub.NewClient(s.logHub, c).Run()
}
