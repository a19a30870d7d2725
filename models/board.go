package models

import (
	"encoding/json"
	"fmt"
)

// Board identifies the listing venue of an instrument. Purchase limits,
// collateral requirements and the lottery-date policy all branch on it, so
// classification is never allowed to fall back to a default.
type Board int

const (
	BoardUnknown Board = iota
	BoardMain
	BoardSmallMedium
	BoardSciTech
	BoardSecond
)

// String returns a short English label for logs and JSON.
func (b Board) String() string {
	switch b {
	case BoardMain:
		return "main"
	case BoardSmallMedium:
		return "small_medium"
	case BoardSciTech:
		return "sci_tech"
	case BoardSecond:
		return "second"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the string label rather than the enum value.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// ParseBoard classifies an instrument code by its two-character prefix:
// 60 Shanghai main board, 00 Shenzhen small/medium board, 68 STAR market,
// 30 ChiNext. Any other prefix is an error.
func ParseBoard(code string) (Board, error) {
	if len(code) < 2 {
		return BoardUnknown, fmt.Errorf("instrument code %q is too short to classify", code)
	}
	switch code[:2] {
	case "60":
		return BoardMain, nil
	case "00":
		return BoardSmallMedium, nil
	case "68":
		return BoardSciTech, nil
	case "30":
		return BoardSecond, nil
	}
	return BoardUnknown, fmt.Errorf("unrecognized board prefix %q in instrument code %q", code[:2], code)
}
