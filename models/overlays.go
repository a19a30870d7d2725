package models

// Overlays are the static per-instrument exception tables for offerings the
// computed rules get wrong. They are plain configuration data injected into
// the engine, keyed by instrument code, and take precedence over every
// computed value.
type Overlays struct {
	// LotteryDates overrides the computed lottery date verbatim.
	LotteryDates map[string]LotteryDate
	// LowCollateral lists offerings on the 1000/6000 boards that only
	// require the 6000 collateral tier.
	LowCollateral map[string]bool
	// DisplayNames overrides the display name outright.
	DisplayNames map[string]string
}

// EmptyOverlays returns overlays with no exceptions.
func EmptyOverlays() Overlays {
	return Overlays{
		LotteryDates:  map[string]LotteryDate{},
		LowCollateral: map[string]bool{},
		DisplayNames:  map[string]string{},
	}
}

// LotteryOverride looks up a lottery-date exception.
func (o Overlays) LotteryOverride(code string) (LotteryDate, bool) {
	l, ok := o.LotteryDates[code]
	return l, ok
}

// IsLowCollateral reports membership in the low-collateral exception list.
func (o Overlays) IsLowCollateral(code string) bool {
	return o.LowCollateral[code]
}

// NameOverride looks up a display-name exception.
func (o Overlays) NameOverride(code string) (string, bool) {
	name, ok := o.DisplayNames[code]
	return name, ok
}
