package report

import (
	"fmt"
	"strings"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/services"
	"github.com/sirupsen/logrus"
)

// Date highlight colors carried over to both renderings: grey for past,
// crimson for today, bronze for tomorrow.
const (
	ColorPast     = "C0C0C0"
	ColorToday    = "DC143C"
	ColorTomorrow = "CD7F32"
)

// Cell is one table cell with an optional background highlight.
type Cell struct {
	Text  string
	Color string
}

// Table is one captioned table of the report, renderer-neutral. The Excel
// writer and the HTML writer both consume this shape, so the two outputs
// cannot drift apart.
type Table struct {
	Caption      string
	CaptionColor string
	Header       []string
	Rows         [][]Cell
}

// Section maps to one worksheet of the Excel report and one block of the
// mail body.
type Section struct {
	Sheet  string
	Tables []*Table
}

// Report is the fully assembled daily report, ready for rendering.
type Report struct {
	Today    models.DayCode
	Sections []*Section
}

// Build assembles the report tables from the calendar view. All layout
// decisions live here; the renderers only draw.
func Build(view *models.CalendarView, ipos *services.IPOService) *Report {
	return &Report{
		Today: view.Today,
		Sections: []*Section{
			buildCalendarSection(view, ipos),
			buildOfferingSection(view),
			buildPurchaseSection("今日申购", ColorToday, view.TodayIPOs[models.StageSubscription]),
			buildPurchaseSection("明日申购", ColorTomorrow, view.TomorrowIPOs[models.StageSubscription]),
		},
	}
}

// buildCalendarSection produces the overview sheet: the today and tomorrow
// stage tables followed by the offline and online detail tables.
func buildCalendarSection(view *models.CalendarView, ipos *services.IPOService) *Section {
	sec := &Section{Sheet: "新股日历"}

	today := &Table{Caption: string(view.Today), CaptionColor: ColorToday}
	for _, stage := range models.TodayStages() {
		today.Rows = append(today.Rows, stageRow(stage, view.TodayIPOs[stage]))
	}
	sec.Tables = append(sec.Tables, today)

	tomorrow := &Table{Caption: string(view.Tomorrow), CaptionColor: ColorTomorrow}
	for _, stage := range models.TomorrowStages() {
		tomorrow.Rows = append(tomorrow.Rows, stageRow(stage, view.TomorrowIPOs[stage]))
	}
	sec.Tables = append(sec.Tables, tomorrow)

	offline, online := view.DistinctRecords()
	if len(offline) > 0 {
		sec.Tables = append(sec.Tables, buildOfflineDetail(view, ipos, offline))
	}
	if len(online) > 0 {
		sec.Tables = append(sec.Tables, buildOnlineDetail(view, online))
	}
	return sec
}

func stageRow(stage models.Stage, recs []*models.IPORecord) []Cell {
	var names strings.Builder
	for _, rec := range recs {
		names.WriteString(" ")
		names.WriteString(rec.DisplayName)
		names.WriteString(" ")
	}
	return []Cell{{Text: models.StageCaptions[stage]}, {Text: names.String()}}
}

func buildOfflineDetail(view *models.CalendarView, ipos *services.IPOService, recs []*models.IPORecord) *Table {
	t := &Table{
		Caption: "网下",
		Header: []string{
			"代码", "简称", "股价测算", "底仓要求", "申报金额上限",
			"招股公告日", "初步询价起始日", "网下申购起始日", "网下申购缴款日", "网下摇号日", "上市日",
		},
	}
	for _, rec := range recs {
		row := []Cell{
			{Text: rec.Code},
			{Text: rec.DisplayName},
			{Text: priceText(rec.DerivedPrice)},
			{Text: ipos.CollateralRequirement(rec)},
			{Text: applicationLimitText(rec)},
			dayCell(view, rec.AnnouncementDay),
			dayCell(view, rec.InquiryDay),
			dayCell(view, rec.OfflineSubscriptionDay),
			dayCell(view, rec.OfflinePaymentDay),
			lotteryCell(view, rec.Lottery),
			dayCell(view, rec.OfferingDay),
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func buildOnlineDetail(view *models.CalendarView, recs []*models.IPORecord) *Table {
	t := &Table{
		Caption: "网上",
		Header: []string{
			"代码", "简称", "股价", "网上申购上限(股)", "网上申购资金上限",
			"招股公告日", "网上申购起始日", "网上申购缴款日", "上市日",
		},
	}
	for _, rec := range recs {
		var moneyLimit string
		if rec.Price != nil && rec.OnlinePurchaseLimit != nil {
			moneyLimit = fmt.Sprintf("%.2f", *rec.Price**rec.OnlinePurchaseLimit)
		}
		row := []Cell{
			{Text: rec.Code},
			{Text: rec.DisplayName},
			{Text: floatText(rec.Price)},
			{Text: floatText(rec.OnlinePurchaseLimit)},
			{Text: moneyLimit},
			dayCell(view, rec.AnnouncementDay),
			dayCell(view, rec.OnlineSubscriptionDay),
			dayCell(view, rec.OnlinePaymentDay),
			dayCell(view, rec.OfferingDay),
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// buildOfferingSection lists the valid allotments of every IPO listing today.
// On the SecondBoard the valid subscription amount is split by lockup: the
// six-month locked tranche is 10% of the amount, the free tranche 90%.
func buildOfferingSection(view *models.CalendarView) *Section {
	sec := &Section{Sheet: "今日上市"}
	recs := view.TodayIPOs[models.StageOffering]
	if len(recs) == 0 {
		sec.Tables = append(sec.Tables, &Table{Caption: "无"})
		return sec
	}
	for _, rec := range recs {
		t := &Table{
			Caption: rec.Code + "   " + rec.DisplayName,
			Header:  []string{"配售对象名称", "有效报价的申购数量(万股)", "获配数量(股)", "锁定期(月)"},
		}
		for _, a := range rec.Allotments {
			if !a.ValidQuote {
				continue
			}
			t.Rows = append(t.Rows, []Cell{
				{Text: a.SubjectName},
				{Text: validAmountText(rec, a)},
				{Text: floatText2(a.AllotmentAmount)},
				{Text: lockupText(a.LockupMonths)},
			})
		}
		sec.Tables = append(sec.Tables, t)
	}
	return sec
}

// buildPurchaseSection lists the valid bids of every IPO subscribing in the
// given window. IPOs where no bid entered are left out entirely.
func buildPurchaseSection(title, color string, recs []*models.IPORecord) *Section {
	sec := &Section{Sheet: title}
	if len(recs) == 0 {
		sec.Tables = append(sec.Tables, &Table{Caption: "无", CaptionColor: color})
		return sec
	}
	for _, rec := range recs {
		if rec.Entry == models.NotEntered {
			continue
		}
		t := &Table{
			Caption: rec.Code + "   " + rec.DisplayName,
			Header:  []string{"配售对象名称", "申报价格(元)", "是否有效报价", "申报数量(万股)"},
		}
		for _, a := range rec.Allotments {
			if !a.ValidQuote {
				continue
			}
			t.Rows = append(t.Rows, []Cell{
				{Text: a.SubjectName},
				{Text: floatText(a.Quote)},
				{Text: "是"},
				{Text: floatText(a.SubscriptionAmount)},
			})
		}
		sec.Tables = append(sec.Tables, t)
	}
	return sec
}

// dayCell renders a date with its window highlight: grey before today,
// crimson on today, bronze on tomorrow, plain after.
func dayCell(view *models.CalendarView, day models.DayCode) Cell {
	if day.IsZero() {
		return Cell{}
	}
	c := Cell{Text: string(day)}
	switch {
	case day.SameDay(view.Today):
		c.Color = ColorToday
	case day.SameDay(view.Tomorrow):
		c.Color = ColorTomorrow
	case day.Int() < view.Today.Int():
		c.Color = ColorPast
	}
	return c
}

func lotteryCell(view *models.CalendarView, l models.LotteryDate) Cell {
	if l.Kind == models.LotteryOnDay {
		return dayCell(view, l.Day)
	}
	return Cell{Text: l.Text()}
}

func priceText(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *p)
}

// applicationLimitText is derived price times the offline purchase limit. A
// missing limit next to a known price is a data problem worth flagging.
func applicationLimitText(rec *models.IPORecord) string {
	if rec.DerivedPrice == nil {
		return ""
	}
	if rec.OfflinePurchaseLimit == nil {
		logrus.WithField("instrument_code", rec.Code).Warn("Offline purchase limit is absent, application limit cannot be calculated")
		return ""
	}
	return fmt.Sprintf("%.2f", *rec.DerivedPrice**rec.OfflinePurchaseLimit)
}

func validAmountText(rec *models.IPORecord, a models.AllotmentRecord) string {
	if a.ValidSubscriptionAmount == nil {
		return ""
	}
	amount := *a.ValidSubscriptionAmount
	if rec.Board == models.BoardSecond {
		if a.LockupMonths != nil && *a.LockupMonths == 6 {
			amount *= 0.1
		} else {
			amount *= 0.9
		}
	}
	return fmt.Sprintf("%.2f", amount)
}

func lockupText(months *int) string {
	switch {
	case months == nil:
		return ""
	case *months == 6:
		return "6"
	case *months == 0:
		return "-"
	default:
		return ""
	}
}

func floatText(v *float64) string {
	if v == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", *v), "0"), ".")
}

func floatText2(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
