package services

import (
	"sort"
	"strings"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/mozillazg/go-pinyin"
)

// AllotmentService aggregates the raw subscription-bid rows of one IPO into
// an ordered allotment roster and an overall entry status.
type AllotmentService struct {
	pinyinArgs pinyin.Args
}

// NewAllotmentService creates a new allotment service instance.
func NewAllotmentService() *AllotmentService {
	args := pinyin.NewArgs()
	// Non-Han runes (digits, Latin letters, parentheses) pass through
	// lowercased so mixed-script names still sort deterministically.
	args.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{strings.ToLower(string(r))}
	}
	return &AllotmentService{pinyinArgs: args}
}

// BuildAllotments scans the bid rows for the given instrument code, builds
// one AllotmentRecord per matching row, and derives the entry status from
// the mix of valid and invalid quotes:
//
//	only valid quotes    -> Entered
//	valid and invalid    -> PartiallyEntered
//	only invalid quotes  -> NotEntered
//	no matching rows     -> NotApplicable
//
// The roster is sorted by the pinyin transliteration of the subject name;
// ties keep raw-row order. The call has no side effects and is idempotent.
func (s *AllotmentService) BuildAllotments(code string, bids []models.RawBidRow) (models.EntryStatus, []models.AllotmentRecord) {
	status := models.EntryNotApplicable
	var roster []models.AllotmentRecord
	validCount := 0
	invalidCount := 0

	for _, row := range bids {
		if row.Code != code {
			continue
		}
		rec := models.AllotmentRecord{
			Code:                    row.Code,
			SubjectName:             row.SubjectName,
			ValidSubscriptionAmount: row.ValidSubscriptionAmount,
			AllotmentAmount:         row.AllotmentAmount,
			LockupMonths:            lockupMonths(row.LockupMonths),
			Quote:                   row.Quote,
			ValidQuote:              row.ValidQuote(),
			SubscriptionAmount:      row.SubscriptionAmount,
		}
		roster = append(roster, rec)
		if rec.ValidQuote {
			validCount++
		} else {
			invalidCount++
		}
	}

	switch {
	case validCount > 0 && invalidCount == 0:
		status = models.Entered
	case validCount > 0 && invalidCount > 0:
		status = models.PartiallyEntered
	case validCount == 0 && invalidCount > 0:
		status = models.NotEntered
	}

	if len(roster) == 0 {
		return status, nil
	}

	keys := make([]string, len(roster))
	order := make([]int, len(roster))
	for i, rec := range roster {
		keys[i] = s.pinyinKey(rec.SubjectName)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })
	sorted := make([]models.AllotmentRecord, len(roster))
	for i, j := range order {
		sorted[i] = roster[j]
	}
	return status, sorted
}

// pinyinKey flattens a subject name to its concatenated lazy pinyin, giving
// names in Han script a stable, pronounceable sort key.
func (s *AllotmentService) pinyinKey(name string) string {
	var b strings.Builder
	for _, syllable := range pinyin.LazyPinyin(name, s.pinyinArgs) {
		b.WriteString(syllable)
	}
	return b.String()
}

func lockupMonths(raw *float64) *int {
	if raw == nil {
		return nil
	}
	months := int(*raw)
	return &months
}
