package models

// EntryStatus records whether the institution's bids for an offline-track
// IPO were accepted. It is meaningful only for the offline track; online
// IPOs stay NotApplicable by construction.
type EntryStatus int

const (
	EntryNotApplicable EntryStatus = -1
	Entered            EntryStatus = 0
	PartiallyEntered   EntryStatus = 1
	NotEntered         EntryStatus = 2
)

func (s EntryStatus) String() string {
	switch s {
	case Entered:
		return "entered"
	case PartiallyEntered:
		return "partially_entered"
	case NotEntered:
		return "not_entered"
	default:
		return "not_applicable"
	}
}

// Name suffixes appended to the raw IPO name on the calendar. Online and
// the entry suffixes are mutually exclusive by the precedence rule.
const (
	OnlineNameSuffix   = "（网上）"
	PartialEntrySuffix = "（部分入围）"
	NotEnteredSuffix   = "（未入围）"
)

// SecondBoardLotteryMarker replaces the lottery date on the ChiNext board,
// where allocation is a fixed 10% lockup ratio instead of a drawing.
const SecondBoardLotteryMarker = "10%比例限售锁定"

// LotteryKind tags the three legal shapes of a lottery date.
type LotteryKind int

const (
	LotteryAbsent LotteryKind = iota
	LotteryOnDay
	LotteryMarker
)

// LotteryDate is either a concrete day, a descriptive policy marker, or
// absent. Consumers must handle all three cases.
type LotteryDate struct {
	Kind   LotteryKind `json:"kind"`
	Day    DayCode     `json:"day,omitempty"`
	Marker string      `json:"marker,omitempty"`
}

// NoLottery is the absent case.
func NoLottery() LotteryDate { return LotteryDate{Kind: LotteryAbsent} }

// LotteryAt is the concrete-day case.
func LotteryAt(day DayCode) LotteryDate { return LotteryDate{Kind: LotteryOnDay, Day: day} }

// LotteryNote is the descriptive-marker case.
func LotteryNote(marker string) LotteryDate { return LotteryDate{Kind: LotteryMarker, Marker: marker} }

// SameDay reports whether the lottery falls on the given day. Markers and
// absent lotteries fall on no day.
func (l LotteryDate) SameDay(day DayCode) bool {
	return l.Kind == LotteryOnDay && l.Day.SameDay(day)
}

// Text renders the field for reports: the day code, the marker, or empty.
func (l LotteryDate) Text() string {
	switch l.Kind {
	case LotteryOnDay:
		return string(l.Day)
	case LotteryMarker:
		return l.Marker
	default:
		return ""
	}
}

// AllotmentRecord is one institutional bid for one IPO. Records are built
// once per run from the raw bid sheet and are immutable afterwards.
type AllotmentRecord struct {
	Code                    string   `json:"code"`
	SubjectName             string   `json:"subject_name"`
	ValidSubscriptionAmount *float64 `json:"valid_subscription_amount,omitempty"`
	AllotmentAmount         *float64 `json:"allotment_amount,omitempty"`
	LockupMonths            *int     `json:"lockup_months,omitempty"`
	Quote                   *float64 `json:"quote,omitempty"`
	ValidQuote              bool     `json:"valid_quote"`
	SubscriptionAmount      *float64 `json:"subscription_amount,omitempty"`
}

// IPORecord is the assembled state of one IPO for a single run.
//
// Invariant: Online and Entry != EntryNotApplicable never hold together. An
// online IPO is never routed through the offline allotment logic.
type IPORecord struct {
	Code        string `json:"code"`
	RawName     string `json:"raw_name"`
	DisplayName string `json:"display_name"`
	Board       Board  `json:"board"`
	Online      bool   `json:"online"`

	AnnouncementDay        DayCode `json:"announcement_day,omitempty"`
	InquiryDay             DayCode `json:"inquiry_day,omitempty"`
	OfflineSubscriptionDay DayCode `json:"offline_subscription_day,omitempty"`
	OfflinePaymentDay      DayCode `json:"offline_payment_day,omitempty"`
	OnlineSubscriptionDay  DayCode `json:"online_subscription_day,omitempty"`
	OnlinePaymentDay       DayCode `json:"online_payment_day,omitempty"`
	OfferingDay            DayCode `json:"offering_day,omitempty"`

	Lottery LotteryDate `json:"lottery"`

	PurchaseLimit        *float64 `json:"purchase_limit,omitempty"`
	OfflinePurchaseLimit *float64 `json:"offline_purchase_limit,omitempty"`
	OnlinePurchaseLimit  *float64 `json:"online_purchase_limit,omitempty"`
	Funding              *float64 `json:"funding,omitempty"`
	IssuedShare          *float64 `json:"issued_share,omitempty"`
	Price                *float64 `json:"price,omitempty"`

	// DerivedPrice is the price used in reports: the offer price when
	// present, otherwise funding/issuedShare on the boards that publish
	// both. Nil when neither can be computed.
	DerivedPrice *float64 `json:"derived_price,omitempty"`

	Entry      EntryStatus       `json:"entry_status"`
	Allotments []AllotmentRecord `json:"allotments,omitempty"`
}
