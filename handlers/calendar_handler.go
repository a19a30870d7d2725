package handlers

import (
	"github.com/CharlesLiangZHY/IPO-Automation/jobs"
	"github.com/gofiber/fiber/v2"
)

// CalendarHandler serves the read-only view of the latest daily run.
type CalendarHandler struct {
	job *jobs.DailyCalendarJob
}

// NewCalendarHandler creates a new calendar handler instance.
func NewCalendarHandler(job *jobs.DailyCalendarJob) *CalendarHandler {
	return &CalendarHandler{job: job}
}

// GetCalendar returns the latest calendar view, or 404 before the first
// completed run.
func (h *CalendarHandler) GetCalendar(c *fiber.Ctx) error {
	view, ok := h.job.LatestView()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no calendar has been built yet",
		})
	}
	return c.JSON(view)
}

// GetRunErrors returns the diagnostics collected by the latest run.
func (h *CalendarHandler) GetRunErrors(c *fiber.Ctx) error {
	problems, runID, runAt, ok := h.job.LatestProblems()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no calendar has been built yet",
		})
	}
	return c.JSON(fiber.Map{
		"run_id": runID,
		"run_at": runAt,
		"count":  len(problems),
		"errors": problems,
	})
}
