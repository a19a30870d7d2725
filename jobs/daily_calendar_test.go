package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CharlesLiangZHY/IPO-Automation/config"
	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/report"
	"github.com/CharlesLiangZHY/IPO-Automation/services"
	"github.com/xuri/excelize/v2"
)

// writeFixtureWorkbook drops a minimal Wind export where the job expects it:
// one offline IPO subscribing today, one bid, and a four-day trading table.
func writeFixtureWorkbook(t *testing.T, dataDir string, today models.DayCode) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	ipoSheet := "新股"
	f.SetSheetName("Sheet1", ipoSheet)
	headers := []string{
		"Wind代码", "Wind名称", "网上网下标识",
		"招股公告日", "初步询价起始日", "网下申购起始日", "网下申购缴款日",
		"网上申购日", "网上缴款日", "上市日",
		"申购上限", "网下申购上限", "网上申购上限",
		"预计募集资金", "新股发行数量", "首发价格",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ipoSheet, cell, h)
	}
	f.SetCellValue(ipoSheet, "A2", "688001")
	f.SetCellValue(ipoSheet, "B2", "华兴源创")
	f.SetCellValue(ipoSheet, "C2", "网下")
	f.SetCellValue(ipoSheet, "F2", string(today))
	f.SetCellValue(ipoSheet, "G2", "20210719")
	f.SetCellValue(ipoSheet, "P2", 24.26)

	bidSheet := "报价"
	f.NewSheet(bidSheet)
	bidHeaders := []string{"wind代码", "配售对象名称", "有效报价的申购数量", "获配数量", "锁定期", "申报价格", "是否有效报价", "申报数量"}
	for i, h := range bidHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(bidSheet, cell, h)
	}
	f.SetCellValue(bidSheet, "A2", "688001")
	f.SetCellValue(bidSheet, "B2", "华安基金")
	f.SetCellValue(bidSheet, "F2", 24.26)
	f.SetCellValue(bidSheet, "G2", "有效")

	daySheet := "交易日"
	f.NewSheet(daySheet)
	f.SetCellValue(daySheet, "A1", "交易日期")
	for i, d := range []string{"20210715", "20210716", "20210719", "20210720"} {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetCellValue(daySheet, cell, d)
	}

	dir := filepath.Join(dataDir, string(today))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(filepath.Join(dir, "wind新股数据"+string(today)+".xlsx")); err != nil {
		t.Fatal(err)
	}
}

func newFixtureJob(t *testing.T) (*DailyCalendarJob, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		DataDir:     filepath.Join(root, "RawData"),
		OutputDir:   filepath.Join(root, "IPO_calendar"),
		HistoryPath: filepath.Join(root, "history.json"),
	}

	workdays := services.NewWorkdayService()
	ipos := services.NewIPOService(services.NewAllotmentService(), workdays, models.EmptyOverlays())
	calendar := services.NewCalendarService(ipos)
	mailer := report.NewMailer("", 25, "", "", nil)

	job := NewDailyCalendarJob(cfg, workdays, calendar, ipos, mailer)
	job.now = func() time.Time { return time.Date(2021, 7, 16, 8, 0, 0, 0, time.UTC) }
	return job, cfg
}

func TestDailyCalendarJobRun(t *testing.T) {
	job, cfg := newFixtureJob(t)
	today := models.DayCode("20210716")
	writeFixtureWorkbook(t, cfg.DataDir, today)

	if _, ok := job.LatestView(); ok {
		t.Fatal("no view may exist before the first run")
	}

	job.Run()

	view, ok := job.LatestView()
	if !ok {
		t.Fatal("the run must publish a view")
	}
	if view.Today != today || view.Tomorrow != "20210719" {
		t.Fatalf("view window = %s/%s", view.Today, view.Tomorrow)
	}
	subs := view.TodayIPOs[models.StageSubscription]
	if len(subs) != 1 || subs[0].Entry != models.Entered {
		t.Fatalf("today subscription bucket = %+v", subs)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "20210716.xlsx")); err != nil {
		t.Fatalf("the xlsx report was not written: %v", err)
	}
	if _, err := os.Stat(cfg.HistoryPath); err != nil {
		t.Fatalf("the name history was not persisted: %v", err)
	}

	problems, runID, _, ok := job.LatestProblems()
	if !ok || runID == "" {
		t.Fatal("the run must record its ID")
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

// A missing export aborts the run without publishing a partial view.
func TestDailyCalendarJobMissingWorkbook(t *testing.T) {
	job, _ := newFixtureJob(t)
	job.Run()
	if _, ok := job.LatestView(); ok {
		t.Fatal("a failed run must not publish a view")
	}
}
