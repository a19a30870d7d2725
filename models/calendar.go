package models

// Stage is one step of the IPO lifecycle as shown on the daily calendar.
type Stage string

const (
	StageMaterialSubmission Stage = "material_submission"
	StageInquiry            Stage = "inquiry"
	StageSubscription       Stage = "subscription"
	StagePayment            Stage = "payment"
	StageLottery            Stage = "lottery"
	StageOffering           Stage = "offering"
)

// StageCaptions maps stages to the Chinese captions used on the report.
var StageCaptions = map[Stage]string{
	StageMaterialSubmission: "交材",
	StageInquiry:            "报价",
	StageSubscription:       "申购",
	StagePayment:            "缴款",
	StageLottery:            "摇号",
	StageOffering:           "上市",
}

// TodayStages lists the stages of the today view in display order.
func TodayStages() []Stage {
	return []Stage{StageMaterialSubmission, StageInquiry, StageSubscription, StagePayment, StageLottery, StageOffering}
}

// TomorrowStages lists the stages of the tomorrow view. Material submission
// is missing: an announcement cannot be scheduled for a future known date in
// this model.
func TomorrowStages() []Stage {
	return []Stage{StageInquiry, StageSubscription, StagePayment, StageLottery, StageOffering}
}

// CalendarView is the output of one run: IPO records bucketed by lifecycle
// stage for today and the next trading day. A record may legally appear
// under several stage keys and in both windows; nothing is deduplicated
// after insertion.
type CalendarView struct {
	Today    DayCode `json:"today"`
	Tomorrow DayCode `json:"tomorrow"`

	TodayIPOs    map[Stage][]*IPORecord `json:"today_ipos"`
	TomorrowIPOs map[Stage][]*IPORecord `json:"tomorrow_ipos"`
}

// NewCalendarView returns an empty view with every stage key present, so
// consumers can range without nil checks.
func NewCalendarView(today, tomorrow DayCode) *CalendarView {
	v := &CalendarView{
		Today:        today,
		Tomorrow:     tomorrow,
		TodayIPOs:    make(map[Stage][]*IPORecord, len(TodayStages())),
		TomorrowIPOs: make(map[Stage][]*IPORecord, len(TomorrowStages())),
	}
	for _, s := range TodayStages() {
		v.TodayIPOs[s] = []*IPORecord{}
	}
	for _, s := range TomorrowStages() {
		v.TomorrowIPOs[s] = []*IPORecord{}
	}
	return v
}

// AddToday appends a record to a today stage bucket.
func (v *CalendarView) AddToday(stage Stage, rec *IPORecord) {
	v.TodayIPOs[stage] = append(v.TodayIPOs[stage], rec)
}

// AddTomorrow appends a record to a tomorrow stage bucket.
func (v *CalendarView) AddTomorrow(stage Stage, rec *IPORecord) {
	v.TomorrowIPOs[stage] = append(v.TomorrowIPOs[stage], rec)
}

// DistinctRecords returns every record referenced by the view exactly once,
// offline track first, preserving first-seen order. The detail tables of the
// report are built from this set.
func (v *CalendarView) DistinctRecords() (offline, online []*IPORecord) {
	seen := make(map[*IPORecord]bool)
	collect := func(stages []Stage, buckets map[Stage][]*IPORecord) {
		for _, s := range stages {
			for _, rec := range buckets[s] {
				if seen[rec] {
					continue
				}
				seen[rec] = true
				if rec.Online {
					online = append(online, rec)
				} else {
					offline = append(offline, rec)
				}
			}
		}
	}
	collect(TodayStages(), v.TodayIPOs)
	collect(TomorrowStages(), v.TomorrowIPOs)
	return offline, online
}
