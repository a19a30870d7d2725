package services

import (
	"testing"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func bidRow(code, subject, valid string) models.RawBidRow {
	return models.RawBidRow{Code: code, SubjectName: subject, ValidIndicator: valid}
}

func TestBuildAllotmentsEntryStatus(t *testing.T) {
	svc := NewAllotmentService()

	tests := []struct {
		name string
		bids []models.RawBidRow
		want models.EntryStatus
	}{
		{
			"only valid quotes",
			[]models.RawBidRow{bidRow("688001", "甲", "有效"), bidRow("688001", "乙", "有效")},
			models.Entered,
		},
		{
			"mixed quotes",
			[]models.RawBidRow{bidRow("688001", "甲", "有效"), bidRow("688001", "乙", "无效")},
			models.PartiallyEntered,
		},
		{
			"only invalid quotes",
			[]models.RawBidRow{bidRow("688001", "甲", "无效")},
			models.NotEntered,
		},
		{
			"no matching rows",
			[]models.RawBidRow{bidRow("300100", "甲", "有效")},
			models.EntryNotApplicable,
		},
		{
			"near-miss token is not valid",
			[]models.RawBidRow{bidRow("688001", "甲", "有效报价")},
			models.NotEntered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := svc.BuildAllotments("688001", tt.bids)
			if status != tt.want {
				t.Fatalf("BuildAllotments() status = %v, want %v", status, tt.want)
			}
		})
	}
}

func TestBuildAllotmentsPinyinOrder(t *testing.T) {
	svc := NewAllotmentService()
	bids := []models.RawBidRow{
		bidRow("688001", "中信证券", "有效"),
		bidRow("688001", "华安基金", "有效"),
		bidRow("688001", "博时基金", "有效"),
	}

	_, roster := svc.BuildAllotments("688001", bids)
	if len(roster) != 3 {
		t.Fatalf("roster has %d entries, want 3", len(roster))
	}
	want := []string{"博时基金", "华安基金", "中信证券"}
	for i, name := range want {
		if roster[i].SubjectName != name {
			t.Fatalf("roster[%d] = %s, want %s", i, roster[i].SubjectName, name)
		}
	}
}

// Equal sort keys keep the raw sheet order.
func TestBuildAllotmentsStableTies(t *testing.T) {
	svc := NewAllotmentService()
	first, second := 1.0, 2.0
	bids := []models.RawBidRow{
		{Code: "688001", SubjectName: "华安基金", ValidIndicator: "有效", Quote: &first},
		{Code: "688001", SubjectName: "华安基金", ValidIndicator: "有效", Quote: &second},
	}

	_, roster := svc.BuildAllotments("688001", bids)
	if len(roster) != 2 {
		t.Fatalf("roster has %d entries, want 2", len(roster))
	}
	if *roster[0].Quote != first || *roster[1].Quote != second {
		t.Fatal("tied subject names must keep their raw-row order")
	}
}

// The status depends only on the valid/invalid mix, never on row order or
// roster size details.
func TestBuildAllotmentsStatusProperty(t *testing.T) {
	svc := NewAllotmentService()
	properties := gopter.NewProperties(nil)

	properties.Property("status follows the valid/invalid mix", prop.ForAll(
		func(validCount, invalidCount int) bool {
			var bids []models.RawBidRow
			for i := 0; i < validCount; i++ {
				bids = append(bids, bidRow("300100", "甲", "有效"))
			}
			for i := 0; i < invalidCount; i++ {
				bids = append(bids, bidRow("300100", "乙", "无效"))
			}

			status, roster := svc.BuildAllotments("300100", bids)
			if len(roster) != validCount+invalidCount {
				return false
			}
			switch {
			case validCount > 0 && invalidCount == 0:
				return status == models.Entered
			case validCount > 0 && invalidCount > 0:
				return status == models.PartiallyEntered
			case invalidCount > 0:
				return status == models.NotEntered
			default:
				return status == models.EntryNotApplicable
			}
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("repeated calls give identical results", prop.ForAll(
		func(validCount int) bool {
			var bids []models.RawBidRow
			for i := 0; i < validCount; i++ {
				bids = append(bids, bidRow("300100", "甲", "有效"))
			}
			s1, r1 := svc.BuildAllotments("300100", bids)
			s2, r2 := svc.BuildAllotments("300100", bids)
			if s1 != s2 || len(r1) != len(r2) {
				return false
			}
			for i := range r1 {
				if r1[i].SubjectName != r2[i].SubjectName {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

func TestBuildAllotmentsLockupConversion(t *testing.T) {
	svc := NewAllotmentService()
	six := 6.0
	bids := []models.RawBidRow{
		{Code: "300100", SubjectName: "甲", ValidIndicator: "有效", LockupMonths: &six},
		{Code: "300100", SubjectName: "乙", ValidIndicator: "有效"},
	}

	_, roster := svc.BuildAllotments("300100", bids)
	byName := map[string]models.AllotmentRecord{}
	for _, rec := range roster {
		byName[rec.SubjectName] = rec
	}
	if got := byName["甲"].LockupMonths; got == nil || *got != 6 {
		t.Fatalf("lockup of 甲 = %v, want 6", got)
	}
	if byName["乙"].LockupMonths != nil {
		t.Fatal("absent lockup must stay absent, not default to zero")
	}
}
