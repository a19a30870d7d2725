package jobs

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/CharlesLiangZHY/IPO-Automation/config"
	"github.com/CharlesLiangZHY/IPO-Automation/history"
	"github.com/CharlesLiangZHY/IPO-Automation/ingest"
	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/report"
	"github.com/CharlesLiangZHY/IPO-Automation/services"
	"github.com/CharlesLiangZHY/IPO-Automation/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// persistentStore is a name-history store that survives across runs.
type persistentStore interface {
	history.Store
	Persist() error
}

// DailyCalendarJob runs the whole pipeline for one day: load the Wind
// export, build the calendar, render and mail the report, persist the name
// history. The latest result is kept for the read API.
type DailyCalendarJob struct {
	cfg      *config.Config
	workdays *services.WorkdayService
	calendar *services.CalendarService
	ipos     *services.IPOService
	mailer   *report.Mailer

	// now is swapped in tests to pin the run day.
	now func() time.Time

	mu           sync.RWMutex
	lastView     *models.CalendarView
	lastProblems []*shared.RecordError
	lastRunID    string
	lastRunAt    time.Time
}

// NewDailyCalendarJob creates a new daily calendar job instance.
func NewDailyCalendarJob(
	cfg *config.Config,
	workdays *services.WorkdayService,
	calendar *services.CalendarService,
	ipos *services.IPOService,
	mailer *report.Mailer,
) *DailyCalendarJob {
	return &DailyCalendarJob{
		cfg:      cfg,
		workdays: workdays,
		calendar: calendar,
		ipos:     ipos,
		mailer:   mailer,
		now:      time.Now,
	}
}

// Run executes one full pipeline pass. Failures are logged, not returned;
// the scheduler retries on the next tick regardless.
func (j *DailyCalendarJob) Run() {
	runID := uuid.New().String()
	log := logrus.WithField("run_id", runID)
	started := j.now()
	today := models.DayCodeOf(started)
	log.WithField("today", string(today)).Info("Starting daily calendar run")

	workbookPath := filepath.Join(j.cfg.DataDir, string(today), fmt.Sprintf("wind新股数据%s.xlsx", string(today)))
	wb, ingestDiags, err := ingest.LoadWorkbook(workbookPath)
	if err != nil {
		log.WithError(err).Error("Daily calendar run aborted: workbook load failed")
		return
	}
	for _, d := range ingestDiags {
		d.Log()
	}

	tomorrow, err := j.workdays.NextTradingDay(today, wb.TradingDays)
	if err != nil {
		log.WithError(err).Error("Daily calendar run aborted: next trading day could not be resolved")
		return
	}

	hist, err := j.openHistory()
	if err != nil {
		log.WithError(err).Error("Daily calendar run aborted: name history unavailable")
		return
	}
	if closer, ok := hist.(io.Closer); ok {
		defer closer.Close()
	}

	view, problems := j.calendar.Build(wb.IPORows, wb.BidRows, wb.TradingDays, hist, today, tomorrow)
	problems = append(ingestDiags, problems...)

	rep := report.Build(view, j.ipos)

	excelPath := filepath.Join(j.cfg.OutputDir, string(today)+".xlsx")
	if err := report.WriteExcel(rep, excelPath); err != nil {
		log.WithError(err).Error("Failed to write the xlsx report")
		excelPath = ""
	}

	if err := j.mailer.SendDaily(today, report.RenderHTML(rep), excelPath); err != nil {
		log.WithError(err).Error("Failed to mail the daily report")
	}

	if err := hist.Persist(); err != nil {
		log.WithError(err).Error("Failed to persist the name history")
	}

	j.mu.Lock()
	j.lastView = view
	j.lastProblems = problems
	j.lastRunID = runID
	j.lastRunAt = started
	j.mu.Unlock()

	log.WithFields(logrus.Fields{
		"today":    string(today),
		"tomorrow": string(tomorrow),
		"problems": len(problems),
		"duration": j.now().Sub(started).String(),
	}).Info("Daily calendar run finished")
}

func (j *DailyCalendarJob) openHistory() (persistentStore, error) {
	if j.cfg.DatabaseURL != "" {
		return history.OpenPostgres(j.cfg.DatabaseURL)
	}
	return history.LoadFile(j.cfg.HistoryPath)
}

// LatestView returns the view of the most recent successful run.
func (j *DailyCalendarJob) LatestView() (*models.CalendarView, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastView, j.lastView != nil
}

// LatestProblems returns the diagnostics of the most recent successful run
// together with its run ID and start time.
func (j *DailyCalendarJob) LatestProblems() ([]*shared.RecordError, string, time.Time, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lastProblems, j.lastRunID, j.lastRunAt, j.lastView != nil
}
