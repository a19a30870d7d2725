package services

import (
	"errors"

	"github.com/CharlesLiangZHY/IPO-Automation/history"
	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/shared"
	"github.com/sirupsen/logrus"
)

// CalendarService turns the raw IPO sheet into the bucketed today/tomorrow
// lifecycle view.
type CalendarService struct {
	ipos *IPOService
}

// NewCalendarService creates a new calendar service instance.
func NewCalendarService(ipos *IPOService) *CalendarService {
	return &CalendarService{ipos: ipos}
}

// Build processes rows in sheet order and buckets every record by exact
// day-code equality against today and tomorrow. A row that fails to
// classify is skipped and reported; the rest of the run continues, so one
// bad row never costs the whole calendar.
func (s *CalendarService) Build(
	rows []models.RawIPORow,
	bids []models.RawBidRow,
	tradingDays []models.DayCode,
	hist history.Store,
	today, tomorrow models.DayCode,
) (*models.CalendarView, []*shared.RecordError) {
	view := models.NewCalendarView(today, tomorrow)
	var problems []*shared.RecordError

	for _, row := range rows {
		rec, diags, err := s.ipos.BuildRecord(row, bids, tradingDays, hist, today, tomorrow)
		problems = append(problems, diags...)
		for _, d := range diags {
			d.Log()
		}
		if err != nil {
			recErr := asRecordError(err, row.Code)
			recErr.Log()
			problems = append(problems, recErr)
			continue
		}
		s.bucket(view, rec)
	}

	logrus.WithFields(logrus.Fields{
		"rows":     len(rows),
		"problems": len(problems),
		"today":    string(today),
		"tomorrow": string(tomorrow),
	}).Info("Built IPO calendar")
	return view, problems
}

// bucket files one record under every stage whose date matches today or
// tomorrow. The checks are independent, never mutually exclusive: a record
// may land in several buckets of both windows.
func (s *CalendarService) bucket(view *models.CalendarView, rec *models.IPORecord) {
	if rec.AnnouncementDay.SameDay(view.Today) {
		view.AddToday(models.StageMaterialSubmission, rec)
	}

	if rec.Online {
		if rec.OnlineSubscriptionDay.SameDay(view.Today) {
			view.AddToday(models.StageSubscription, rec)
		}
		if rec.OnlinePaymentDay.SameDay(view.Today) {
			view.AddToday(models.StagePayment, rec)
		}
		if rec.OnlineSubscriptionDay.SameDay(view.Tomorrow) {
			view.AddTomorrow(models.StageSubscription, rec)
		}
		if rec.OnlinePaymentDay.SameDay(view.Tomorrow) {
			view.AddTomorrow(models.StagePayment, rec)
		}
	} else {
		if rec.OfflineSubscriptionDay.SameDay(view.Today) {
			view.AddToday(models.StageSubscription, rec)
		}
		if rec.OfflinePaymentDay.SameDay(view.Today) {
			view.AddToday(models.StagePayment, rec)
		}
		if rec.OfflineSubscriptionDay.SameDay(view.Tomorrow) {
			view.AddTomorrow(models.StageSubscription, rec)
		}
		if rec.OfflinePaymentDay.SameDay(view.Tomorrow) {
			view.AddTomorrow(models.StagePayment, rec)
		}
		// The inquiry stage exists only on the offline track.
		if rec.InquiryDay.SameDay(view.Today) {
			view.AddToday(models.StageInquiry, rec)
		}
		if rec.InquiryDay.SameDay(view.Tomorrow) {
			view.AddTomorrow(models.StageInquiry, rec)
		}
	}

	if rec.Lottery.SameDay(view.Today) {
		view.AddToday(models.StageLottery, rec)
	}
	if rec.OfferingDay.SameDay(view.Today) {
		view.AddToday(models.StageOffering, rec)
	}
	if rec.Lottery.SameDay(view.Tomorrow) {
		view.AddTomorrow(models.StageLottery, rec)
	}
	if rec.OfferingDay.SameDay(view.Tomorrow) {
		view.AddTomorrow(models.StageOffering, rec)
	}
}

func asRecordError(err error, code string) *shared.RecordError {
	var recErr *shared.RecordError
	if errors.As(err, &recErr) {
		return recErr
	}
	return shared.NewRecordError(shared.ErrorCategoryIngest, code, "", err.Error(), err)
}
