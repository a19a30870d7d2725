package models

import (
	"fmt"
	"strings"
)

// Fixed tokens used by the Wind export. The bid sheet marks a valid quote
// with exactly 有效; the IPO sheet carries a track indicator containing
// 网下 (offline) or 网上 (online).
const (
	ValidQuoteToken    = "有效"
	OfflineTrackMarker = "网下"
	OnlineTrackMarker  = "网上"
)

// RawIPORow is one validated row of the IPO sheet. The loader resolves
// headers and cell presence once; absent cells stay absent and are never
// coerced to zero or the empty string. Date cells keep their heterogeneous
// raw representation for the core's normalizer.
type RawIPORow struct {
	Code           string
	Name           string
	TrackIndicator string

	AnnouncementDate        DateValue
	InquiryDate             DateValue
	OfflineSubscriptionDate DateValue
	OfflinePaymentDate      DateValue
	OnlineSubscriptionDate  DateValue
	OnlinePaymentDate       DateValue
	OfferingDate            DateValue

	PurchaseLimit        *float64
	OfflinePurchaseLimit *float64
	OnlinePurchaseLimit  *float64
	Funding              *float64
	IssuedShare          *float64
	Price                *float64
}

// OnlineTrack derives the subscription track from the raw indicator. The
// offline marker wins when present; an indicator naming neither track fails
// loudly, since the distinction gates an entire branch of the engine.
func (r RawIPORow) OnlineTrack() (bool, error) {
	switch {
	case strings.Contains(r.TrackIndicator, OfflineTrackMarker):
		return false, nil
	case strings.Contains(r.TrackIndicator, OnlineTrackMarker):
		return true, nil
	default:
		return false, fmt.Errorf("track indicator %q names neither the online nor the offline track", r.TrackIndicator)
	}
}

// RawBidRow is one validated row of the subscription-bid sheet.
type RawBidRow struct {
	Code                    string
	SubjectName             string
	ValidIndicator          string
	ValidSubscriptionAmount *float64
	AllotmentAmount         *float64
	LockupMonths            *float64
	Quote                   *float64
	SubscriptionAmount      *float64
}

// ValidQuote reports whether the bid carried the exact valid-quote token.
func (r RawBidRow) ValidQuote() bool { return r.ValidIndicator == ValidQuoteToken }
