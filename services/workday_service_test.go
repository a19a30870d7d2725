package services

import (
	"testing"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
)

func TestNextTradingDayFromTable(t *testing.T) {
	svc := NewWorkdayService()
	table := []models.DayCode{"20210714", "20210715", "20210716", "20210719"}

	tests := []struct {
		name string
		day  models.DayCode
		want models.DayCode
	}{
		{"mid-table successor", "20210715", "20210716"},
		{"friday uses table, not heuristic", "20210716", "20210719"},
		{"first entry", "20210714", "20210715"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NextTradingDay(tt.day, table)
			if err != nil {
				t.Fatalf("NextTradingDay() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("NextTradingDay(%s) = %s, want %s", tt.day, got, tt.want)
			}
		})
	}
}

// A duplicated table entry resolves through its last occurrence.
func TestNextTradingDayLastMatchWins(t *testing.T) {
	svc := NewWorkdayService()
	table := []models.DayCode{"20210714", "20210715", "20210714", "20210719"}

	got, err := svc.NextTradingDay("20210714", table)
	if err != nil {
		t.Fatalf("NextTradingDay() error = %v", err)
	}
	if got != "20210719" {
		t.Fatalf("NextTradingDay() = %s, want the successor of the last occurrence 20210719", got)
	}
}

func TestNextTradingDayWeekendFallback(t *testing.T) {
	svc := NewWorkdayService()
	var table []models.DayCode

	tests := []struct {
		name string
		day  models.DayCode
		want models.DayCode
	}{
		{"friday skips the weekend", "20210723", "20210726"},
		{"saturday skips to monday", "20210724", "20210726"},
		{"sunday skips to monday", "20210725", "20210726"},
		{"monday advances one day", "20210719", "20210720"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NextTradingDay(tt.day, table)
			if err != nil {
				t.Fatalf("NextTradingDay() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("NextTradingDay(%s) = %s, want %s", tt.day, got, tt.want)
			}
		})
	}
}

// The last table entry has no successor, so the fallback takes over.
func TestNextTradingDayTableExhausted(t *testing.T) {
	svc := NewWorkdayService()
	table := []models.DayCode{"20210714", "20210715", "20210716"}

	// 20210716 is a Friday; the fallback skips to Monday.
	got, err := svc.NextTradingDay("20210716", table[:3])
	if err != nil {
		t.Fatalf("NextTradingDay() error = %v", err)
	}
	if got != "20210719" {
		t.Fatalf("NextTradingDay() = %s, want 20210719", got)
	}
}

func TestNextTradingDayMalformedDay(t *testing.T) {
	svc := NewWorkdayService()
	if _, err := svc.NextTradingDay("not-a-day", nil); err == nil {
		t.Fatal("expected an error for a malformed day code outside the table")
	}
}
