package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/CharlesLiangZHY/IPO-Automation/shared"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Column headers of the Wind workbook export. The loader resolves columns by
// header text, never by position, so column reordering in the export is
// harmless.
const (
	colCode                 = "Wind代码"
	colName                 = "Wind名称"
	colTrack                = "网上网下标识"
	colAnnouncementDate     = "招股公告日"
	colInquiryDate          = "初步询价起始日"
	colOfflineSubDate       = "网下申购起始日"
	colOfflinePayDate       = "网下申购缴款日"
	colOfferingDate         = "上市日"
	colPurchaseLimit        = "申购上限"
	colOfflinePurchaseLimit = "网下申购上限"
	colFunding              = "预计募集资金"
	colIssuedShare          = "新股发行数量"
	colPrice                = "首发价格"
	colOnlinePurchaseLimit  = "网上申购上限"
	colOnlineSubDate        = "网上申购日"
	colOnlinePayDate        = "网上缴款日"

	colBidCode            = "wind代码"
	colBidSubject         = "配售对象名称"
	colBidValidSubAmount  = "有效报价的申购数量"
	colBidAllotmentAmount = "获配数量"
	colBidLockup          = "锁定期"
	colBidQuote           = "申报价格"
	colBidValid           = "是否有效报价"
	colBidSubAmount       = "申报数量"
)

// Workbook is the typed content of one daily Wind export: the IPO sheet, the
// subscription-bid sheet and the trading-day table, in that sheet order.
type Workbook struct {
	IPORows     []models.RawIPORow
	BidRows     []models.RawBidRow
	TradingDays []models.DayCode
}

// LoadWorkbook reads the three sheets of the export at path. Cell-level
// problems become diagnostics and leave the cell absent; only a missing
// sheet or header makes the load fail.
func LoadWorkbook(path string) (*Workbook, []*shared.RecordError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < 3 {
		return nil, nil, fmt.Errorf("workbook %s has %d sheets, expected the IPO, bid and trading-day sheets", path, len(sheets))
	}

	var diags []*shared.RecordError

	ipoRows, ipoDiags, err := loadIPOSheet(f, sheets[0])
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, ipoDiags...)

	bidRows, bidDiags, err := loadBidSheet(f, sheets[1])
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, bidDiags...)

	tradingDays, err := loadTradingDaySheet(f, sheets[2])
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":         path,
		"ipo_rows":     len(ipoRows),
		"bid_rows":     len(bidRows),
		"trading_days": len(tradingDays),
	}).Info("Loaded Wind workbook")
	return &Workbook{IPORows: ipoRows, BidRows: bidRows, TradingDays: tradingDays}, diags, nil
}

func loadIPOSheet(f *excelize.File, sheet string) ([]models.RawIPORow, []*shared.RecordError, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read IPO sheet %s: %w", sheet, err)
	}
	cols, err := resolveHeaders(sheet, rows, []string{
		colCode, colName, colTrack,
		colAnnouncementDate, colInquiryDate, colOfflineSubDate, colOfflinePayDate,
		colOnlineSubDate, colOnlinePayDate, colOfferingDate,
		colPurchaseLimit, colOfflinePurchaseLimit, colOnlinePurchaseLimit,
		colFunding, colIssuedShare, colPrice,
	})
	if err != nil {
		return nil, nil, err
	}

	var out []models.RawIPORow
	var diags []*shared.RecordError
	for _, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, cols[colCode]))
		if code == "" {
			continue
		}
		r := models.RawIPORow{
			Code:           code,
			Name:           strings.TrimSpace(cell(row, cols[colName])),
			TrackIndicator: strings.TrimSpace(cell(row, cols[colTrack])),
		}

		dates := []struct {
			header string
			dst    *models.DateValue
		}{
			{colAnnouncementDate, &r.AnnouncementDate},
			{colInquiryDate, &r.InquiryDate},
			{colOfflineSubDate, &r.OfflineSubscriptionDate},
			{colOfflinePayDate, &r.OfflinePaymentDate},
			{colOnlineSubDate, &r.OnlineSubscriptionDate},
			{colOnlinePayDate, &r.OnlinePaymentDate},
			{colOfferingDate, &r.OfferingDate},
		}
		for _, d := range dates {
			*d.dst = parseDateCell(cell(row, cols[d.header]))
		}

		numerics := []struct {
			header string
			dst    **float64
		}{
			{colPurchaseLimit, &r.PurchaseLimit},
			{colOfflinePurchaseLimit, &r.OfflinePurchaseLimit},
			{colOnlinePurchaseLimit, &r.OnlinePurchaseLimit},
			{colFunding, &r.Funding},
			{colIssuedShare, &r.IssuedShare},
			{colPrice, &r.Price},
		}
		for _, n := range numerics {
			v, err := parseFloatCell(cell(row, cols[n.header]))
			if err != nil {
				diags = append(diags, shared.NewRecordError(shared.ErrorCategoryIngest, code, n.header, err.Error(), err))
				continue
			}
			*n.dst = v
		}
		out = append(out, r)
	}
	return out, diags, nil
}

func loadBidSheet(f *excelize.File, sheet string) ([]models.RawBidRow, []*shared.RecordError, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read bid sheet %s: %w", sheet, err)
	}
	cols, err := resolveHeaders(sheet, rows, []string{
		colBidCode, colBidSubject, colBidValidSubAmount, colBidAllotmentAmount,
		colBidLockup, colBidQuote, colBidValid, colBidSubAmount,
	})
	if err != nil {
		return nil, nil, err
	}

	var out []models.RawBidRow
	var diags []*shared.RecordError
	for _, row := range rows[1:] {
		code := strings.TrimSpace(cell(row, cols[colBidCode]))
		if code == "" {
			continue
		}
		r := models.RawBidRow{
			Code:           code,
			SubjectName:    strings.TrimSpace(cell(row, cols[colBidSubject])),
			ValidIndicator: strings.TrimSpace(cell(row, cols[colBidValid])),
		}
		numerics := []struct {
			header string
			dst    **float64
		}{
			{colBidValidSubAmount, &r.ValidSubscriptionAmount},
			{colBidAllotmentAmount, &r.AllotmentAmount},
			{colBidLockup, &r.LockupMonths},
			{colBidQuote, &r.Quote},
			{colBidSubAmount, &r.SubscriptionAmount},
		}
		for _, n := range numerics {
			v, err := parseFloatCell(cell(row, cols[n.header]))
			if err != nil {
				diags = append(diags, shared.NewRecordError(shared.ErrorCategoryIngest, code, n.header, err.Error(), err))
				continue
			}
			*n.dst = v
		}
		out = append(out, r)
	}
	return out, diags, nil
}

// loadTradingDaySheet reads the first column of the trading-day sheet into an
// ordered day-code table. Unreadable entries fail the load; the workday
// resolver depends on the table being complete and in order.
func loadTradingDaySheet(f *excelize.File, sheet string) ([]models.DayCode, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read trading-day sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("trading-day sheet %s is empty", sheet)
	}

	var days []models.DayCode
	for i, row := range rows[1:] {
		raw := strings.TrimSpace(cell(row, 0))
		if raw == "" {
			continue
		}
		day, err := parseDateCell(raw).Day()
		if err != nil {
			return nil, fmt.Errorf("trading-day sheet %s row %d: %w", sheet, i+2, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// resolveHeaders maps required header names to column indexes using the first
// row of the sheet.
func resolveHeaders(sheet string, rows [][]string, required []string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	cols := make(map[string]int, len(required))
	for _, h := range required {
		i, ok := index[h]
		if !ok {
			return nil, fmt.Errorf("sheet %s is missing the %s column", sheet, h)
		}
		cols[h] = i
	}
	return cols, nil
}

// cell reads a column from a possibly ragged row.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// dateLayouts are the textual date shapes seen in Wind exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// parseDateCell wraps a raw date cell without normalizing it. Real date
// cells arrive as Excel serial numbers under raw reading and are converted
// to calendar dates here; 8-digit numbers are taken as day codes and kept in
// their raw shape for the core normalizer.
func parseDateCell(s string) models.DateValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.AbsentDate()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if !strings.Contains(s, ".") && len(s) == 8 {
			return models.NewDateValue(s)
		}
		if strings.Contains(s, ".") && v >= 10000000 {
			// A day code that leaked through as a float.
			return models.NewDateValue(v)
		}
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return models.NewDateValue(t)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewDateValue(t)
		}
	}
	// Unrecognized shapes pass through and fail in normalization, where the
	// failure is attributed to the owning record.
	return models.NewDateValue(s)
}

// parseFloatCell reads an optional numeric cell. Empty cells are absent, not
// zero.
func parseFloatCell(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("cell value %q is not numeric", s)
	}
	return &v, nil
}
