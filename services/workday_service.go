package services

import (
	"fmt"
	"time"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
)

// WorkdayService resolves the next trading day from the workbook's known
// trading-day table, falling back to a weekend-skipping heuristic when the
// date is outside the table.
type WorkdayService struct{}

// NewWorkdayService creates a new workday service instance.
func NewWorkdayService() *WorkdayService {
	return &WorkdayService{}
}

// NextTradingDay returns the trading day after day. If day appears in the
// table, the entry immediately following it wins; a day that is the last
// entry or absent from the table falls back to moving one calendar day
// forward and skipping Saturday and Sunday.
//
// Official holidays are not modeled by the fallback. This gap is inherited
// from the data source rather than papered over: when the table runs out,
// a holiday Monday will be reported as a trading day.
func (s *WorkdayService) NextTradingDay(day models.DayCode, tradingDays []models.DayCode) (models.DayCode, error) {
	next := -1
	for i, d := range tradingDays {
		if d.SameDay(day) {
			next = i + 1
		}
	}
	if next != -1 && next < len(tradingDays) {
		return tradingDays[next], nil
	}

	t, err := day.Time()
	if err != nil {
		return models.NoDay, fmt.Errorf("cannot resolve next trading day: %w", err)
	}
	interval := 1
	switch t.Weekday() {
	case time.Friday:
		interval = 3
	case time.Saturday:
		interval = 2
	case time.Sunday:
		interval = 1
	}
	return models.DayCodeOf(t.AddDate(0, 0, interval)), nil
}
