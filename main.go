package main

import (
	"log"
	"time"

	"github.com/CharlesLiangZHY/IPO-Automation/config"
	"github.com/CharlesLiangZHY/IPO-Automation/handlers"
	"github.com/CharlesLiangZHY/IPO-Automation/jobs"
	"github.com/CharlesLiangZHY/IPO-Automation/report"
	"github.com/CharlesLiangZHY/IPO-Automation/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	overlays, err := config.LoadOverlays(cfg.OverlayPath)
	if err != nil {
		log.Fatalf("Failed to load overlay tables: %v", err)
	}

	// Initialize services
	workdayService := services.NewWorkdayService()
	allotmentService := services.NewAllotmentService()
	ipoService := services.NewIPOService(allotmentService, workdayService, overlays)
	calendarService := services.NewCalendarService(ipoService)

	mailer := report.NewMailer(
		cfg.SMTPHost,
		cfg.SMTPPortNumber(),
		cfg.MailSender,
		cfg.MailAuthCode,
		cfg.Recipients(),
	)

	dailyJob := jobs.NewDailyCalendarJob(cfg, workdayService, calendarService, ipoService, mailer)

	// Start background job: run immediately, then once a day
	go func() {
		dailyJob.Run()

		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			dailyJob.Run()
		}
	}()

	// Setup Fiber
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	calendarHandler := handlers.NewCalendarHandler(dailyJob)

	api := app.Group("/api/v1")
	api.Get("/calendar", calendarHandler.GetCalendar)
	api.Get("/calendar/errors", calendarHandler.GetRunErrors)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
