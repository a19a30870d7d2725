package services

import (
	"math"

	"github.com/CharlesLiangZHY/IPO-Automation/history"
	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/shared"
)

// IPOService assembles one IPORecord per raw sheet row: board and track
// classification, lottery-date policy, allotment evaluation, derived price
// and the display-name precedence chain.
type IPOService struct {
	allotments *AllotmentService
	workdays   *WorkdayService
	overlays   models.Overlays
}

// NewIPOService creates a new IPO service instance. The overlays are the
// static exception tables and take precedence over all computed logic.
func NewIPOService(allotments *AllotmentService, workdays *WorkdayService, overlays models.Overlays) *IPOService {
	return &IPOService{
		allotments: allotments,
		workdays:   workdays,
		overlays:   overlays,
	}
}

// BuildRecord builds the full state of one IPO for a run anchored at
// today/tomorrow. The caller-supplied history store is mutated in place;
// it is the only cross-run memory in the engine.
//
// A nil record with a non-nil error means the row could not be classified
// (unknown board, unknown track, malformed date). Diagnostics carry
// recoverable issues; the record is still usable alongside them.
func (s *IPOService) BuildRecord(
	row models.RawIPORow,
	bids []models.RawBidRow,
	tradingDays []models.DayCode,
	hist history.Store,
	today, tomorrow models.DayCode,
) (*models.IPORecord, []*shared.RecordError, error) {
	board, err := models.ParseBoard(row.Code)
	if err != nil {
		recErr := shared.NewRecordError(shared.ErrorCategoryBoard, row.Code, "", err.Error(), err)
		return nil, nil, recErr
	}
	online, err := row.OnlineTrack()
	if err != nil {
		recErr := shared.NewRecordError(shared.ErrorCategoryTrack, row.Code, "", err.Error(), err)
		return nil, nil, recErr
	}

	rec := &models.IPORecord{
		Code:                 row.Code,
		RawName:              row.Name,
		Board:                board,
		Online:               online,
		PurchaseLimit:        row.PurchaseLimit,
		OfflinePurchaseLimit: row.OfflinePurchaseLimit,
		OnlinePurchaseLimit:  row.OnlinePurchaseLimit,
		Funding:              row.Funding,
		IssuedShare:          row.IssuedShare,
		Price:                row.Price,
		Entry:                models.EntryNotApplicable,
	}
	if err := s.normalizeDates(row, rec); err != nil {
		return nil, nil, err
	}

	var diags []*shared.RecordError

	lottery, diag := s.lotteryDate(rec, tradingDays)
	rec.Lottery = lottery
	if diag != nil {
		diags = append(diags, diag)
	}

	if priceDiag := s.derivePrice(rec); priceDiag != nil {
		diags = append(diags, priceDiag)
	}

	// Allotment detail is evaluated lazily: only when the subscription
	// window touches this run. The second branch keeps the roster for
	// tomorrow's detail tables without re-flagging the entry status.
	offSub := rec.OfflineSubscriptionDay
	if !rec.Online && (offSub.SameDay(today) || offSub.SameDay(tomorrow)) {
		rec.Entry, rec.Allotments = s.allotments.BuildAllotments(rec.Code, bids)
	} else if offSub.SameDay(tomorrow) || rec.OfferingDay.SameDay(today) {
		_, rec.Allotments = s.allotments.BuildAllotments(rec.Code, bids)
	}

	s.assignDisplayName(rec, hist)
	return rec, diags, nil
}

func (s *IPOService) normalizeDates(row models.RawIPORow, rec *models.IPORecord) error {
	fields := []struct {
		name string
		raw  models.DateValue
		dst  *models.DayCode
	}{
		{"announcement_date", row.AnnouncementDate, &rec.AnnouncementDay},
		{"inquiry_date", row.InquiryDate, &rec.InquiryDay},
		{"offline_subscription_date", row.OfflineSubscriptionDate, &rec.OfflineSubscriptionDay},
		{"offline_payment_date", row.OfflinePaymentDate, &rec.OfflinePaymentDay},
		{"online_subscription_date", row.OnlineSubscriptionDate, &rec.OnlineSubscriptionDay},
		{"online_payment_date", row.OnlinePaymentDate, &rec.OnlinePaymentDay},
		{"offering_date", row.OfferingDate, &rec.OfferingDay},
	}
	for _, f := range fields {
		day, err := f.raw.Day()
		if err != nil {
			return shared.NewRecordError(shared.ErrorCategoryDateFormat, row.Code, f.name, err.Error(), err)
		}
		*f.dst = day
	}
	return nil
}

// lotteryDate applies the board policy, with the exception table winning
// over everything: Main and SmallMedium allocate without a lottery, online
// IPOs have none, SciTech draws on the trading day after offline payment,
// and SecondBoard replaces the date with a fixed lockup-ratio marker.
func (s *IPOService) lotteryDate(rec *models.IPORecord, tradingDays []models.DayCode) (models.LotteryDate, *shared.RecordError) {
	if override, ok := s.overlays.LotteryOverride(rec.Code); ok {
		return override, nil
	}
	if rec.Board == models.BoardMain || rec.Board == models.BoardSmallMedium {
		return models.NoLottery(), nil
	}
	if rec.Online {
		return models.NoLottery(), nil
	}
	switch rec.Board {
	case models.BoardSciTech:
		if rec.OfflinePaymentDay.IsZero() {
			diag := shared.NewRecordError(shared.ErrorCategoryMissingNumeric, rec.Code, "offline_payment_date",
				"lottery date cannot be derived: offline payment date is absent", nil)
			return models.NoLottery(), diag
		}
		day, err := s.workdays.NextTradingDay(rec.OfflinePaymentDay, tradingDays)
		if err != nil {
			diag := shared.NewRecordError(shared.ErrorCategoryDateFormat, rec.Code, "offline_payment_date", err.Error(), err)
			return models.NoLottery(), diag
		}
		return models.LotteryAt(day), nil
	case models.BoardSecond:
		return models.LotteryNote(models.SecondBoardLotteryMarker), nil
	}
	return models.NoLottery(), nil
}

// derivePrice fills DerivedPrice. On the Main and SmallMedium boards a
// missing offer price is estimated as funding over issued shares; on the
// newer boards the price is simply unknown until set. Missing inputs leave
// the price absent and surface a diagnostic instead of aborting.
func (s *IPOService) derivePrice(rec *models.IPORecord) *shared.RecordError {
	if rec.Price != nil {
		p := round2(*rec.Price)
		rec.DerivedPrice = &p
		return nil
	}
	if rec.Board != models.BoardMain && rec.Board != models.BoardSmallMedium {
		return nil
	}
	if rec.Funding == nil {
		return shared.NewRecordError(shared.ErrorCategoryMissingNumeric, rec.Code, "funding",
			"funding is absent, price cannot be calculated from the raw data", nil)
	}
	if rec.IssuedShare == nil {
		return shared.NewRecordError(shared.ErrorCategoryMissingNumeric, rec.Code, "issued_share",
			"issued share count is absent, price cannot be calculated from the raw data", nil)
	}
	p := round2(*rec.Funding / *rec.IssuedShare)
	rec.DerivedPrice = &p
	return nil
}

// assignDisplayName applies the first-match precedence chain and updates
// history. History is refreshed only while the status is anything but fully
// entered, freezing the last flagged name forward once an IPO clears.
func (s *IPOService) assignDisplayName(rec *models.IPORecord, hist history.Store) {
	if name, ok := s.overlays.NameOverride(rec.Code); ok {
		rec.DisplayName = name
		hist.Set(rec.Code, name)
	} else if rec.Online {
		rec.DisplayName = rec.RawName + models.OnlineNameSuffix
	} else if rec.Entry == models.PartiallyEntered {
		rec.DisplayName = rec.RawName + models.PartialEntrySuffix
	} else if rec.Entry == models.NotEntered {
		rec.DisplayName = rec.RawName + models.NotEnteredSuffix
	} else if prev, ok := hist.Get(rec.Code); ok {
		rec.DisplayName = prev
	} else {
		rec.DisplayName = rec.RawName
	}
	if rec.Entry != models.Entered {
		hist.Set(rec.Code, rec.DisplayName)
	}
}

// CollateralRequirement returns the collateral tier text for the detail
// table: the newer boards and low-collateral exceptions need only the 6000
// tier, the older boards both.
func (s *IPOService) CollateralRequirement(rec *models.IPORecord) string {
	if rec.Board == models.BoardSciTech || rec.Board == models.BoardSecond || s.overlays.IsLowCollateral(rec.Code) {
		return "6000"
	}
	return "1000/6000"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
