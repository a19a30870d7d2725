package services

import (
	"testing"

	"github.com/CharlesLiangZHY/IPO-Automation/history"
	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/shared"
)

func newTestCalendarService() *CalendarService {
	return NewCalendarService(newTestIPOService(models.EmptyOverlays()))
}

func TestCalendarBuildBucketsByStage(t *testing.T) {
	svc := newTestCalendarService()

	offline := ipoRow("688001", "华兴源创", "网下")
	offline.AnnouncementDate = models.NewDateValue(string(testToday))
	offline.InquiryDate = models.NewDateValue(string(testTomorrow))
	offline.OfflineSubscriptionDate = models.NewDateValue(string(testToday))
	offline.OfflinePaymentDate = models.NewDateValue(string(testTomorrow))

	online := ipoRow("603528", "多伦科技", "网上")
	online.Price = f64(10)
	online.OnlineSubscriptionDate = models.NewDateValue(string(testToday))
	online.OnlinePaymentDate = models.NewDateValue(string(testTomorrow))
	online.OfferingDate = models.NewDateValue(string(testTomorrow))

	view, problems := svc.Build(
		[]models.RawIPORow{offline, online}, nil, testTradingDays,
		history.NewMemoryStore(), testToday, testTomorrow,
	)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	checks := []struct {
		bucket []*models.IPORecord
		code   string
		want   int
	}{
		{view.TodayIPOs[models.StageMaterialSubmission], "688001", 1},
		{view.TodayIPOs[models.StageSubscription], "", 2},
		{view.TomorrowIPOs[models.StageInquiry], "688001", 1},
		{view.TomorrowIPOs[models.StagePayment], "", 2},
		{view.TomorrowIPOs[models.StageOffering], "603528", 1},
		{view.TodayIPOs[models.StageOffering], "", 0},
		{view.TodayIPOs[models.StageLottery], "", 0},
	}
	for i, c := range checks {
		if len(c.bucket) != c.want {
			t.Fatalf("check %d: bucket has %d records, want %d", i, len(c.bucket), c.want)
		}
		if c.code != "" && c.bucket[0].Code != c.code {
			t.Fatalf("check %d: bucket holds %s, want %s", i, c.bucket[0].Code, c.code)
		}
	}
}

// The offline IPO's online date columns are ignored, and the other way
// round: bucketing reads only the columns of the record's own track.
func TestCalendarBuildTrackSelectsDateColumns(t *testing.T) {
	svc := newTestCalendarService()

	row := ipoRow("688001", "华兴源创", "网下")
	row.OfflinePaymentDate = models.NewDateValue("20210720")
	row.OnlineSubscriptionDate = models.NewDateValue(string(testToday))
	row.OnlinePaymentDate = models.NewDateValue(string(testToday))

	view, problems := svc.Build(
		[]models.RawIPORow{row}, nil, testTradingDays,
		history.NewMemoryStore(), testToday, testTomorrow,
	)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if len(view.TodayIPOs[models.StageSubscription]) != 0 || len(view.TodayIPOs[models.StagePayment]) != 0 {
		t.Fatal("an offline record must not bucket through its online date columns")
	}
}

// The derived lottery day buckets like any other date.
func TestCalendarBuildLotteryBucketing(t *testing.T) {
	svc := newTestCalendarService()

	row := ipoRow("688001", "华兴源创", "网下")
	// Payment on 20210716; the table puts the next trading day on 20210719.
	row.OfflinePaymentDate = models.NewDateValue("20210716")

	view, problems := svc.Build(
		[]models.RawIPORow{row}, nil, testTradingDays,
		history.NewMemoryStore(), testToday, testTomorrow,
	)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if len(view.TomorrowIPOs[models.StageLottery]) != 1 {
		t.Fatal("the derived lottery day must land in the tomorrow lottery bucket")
	}
	if len(view.TodayIPOs[models.StageLottery]) != 0 {
		t.Fatal("the lottery must not appear in the today bucket")
	}
}

func TestCalendarBuildIsolatesBadRows(t *testing.T) {
	svc := newTestCalendarService()

	bad := ipoRow("400001", "未知板块", "网下")
	alsoBad := ipoRow("688002", "华兴源创", "未知")
	good := ipoRow("603000", "人民网", "网下")
	good.Price = f64(10)
	good.AnnouncementDate = models.NewDateValue(string(testToday))

	view, problems := svc.Build(
		[]models.RawIPORow{bad, alsoBad, good}, nil, testTradingDays,
		history.NewMemoryStore(), testToday, testTomorrow,
	)
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2", len(problems))
	}
	categories := map[shared.ErrorCategory]bool{}
	for _, p := range problems {
		categories[p.Category] = true
	}
	if !categories[shared.ErrorCategoryBoard] || !categories[shared.ErrorCategoryTrack] {
		t.Fatalf("problems = %v, want one board and one track error", problems)
	}
	if len(view.TodayIPOs[models.StageMaterialSubmission]) != 1 {
		t.Fatal("the good row must survive its bad neighbours")
	}
}

// A record whose dates touch several stages appears in all of them; nothing
// deduplicates across buckets.
func TestCalendarBuildMultiBucketMembership(t *testing.T) {
	svc := newTestCalendarService()

	row := ipoRow("300100", "双林股份", "网下")
	row.OfflineSubscriptionDate = models.NewDateValue(string(testToday))
	row.OfflinePaymentDate = models.NewDateValue(string(testToday))
	row.OfferingDate = models.NewDateValue(string(testTomorrow))

	view, _ := svc.Build(
		[]models.RawIPORow{row}, nil, testTradingDays,
		history.NewMemoryStore(), testToday, testTomorrow,
	)
	total := len(view.TodayIPOs[models.StageSubscription]) +
		len(view.TodayIPOs[models.StagePayment]) +
		len(view.TomorrowIPOs[models.StageOffering])
	if total != 3 {
		t.Fatalf("record appears %d times, want 3", total)
	}

	offline, online := view.DistinctRecords()
	if len(offline) != 1 || len(online) != 0 {
		t.Fatalf("DistinctRecords() = %d offline, %d online, want exactly one offline", len(offline), len(online))
	}
}
