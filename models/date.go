package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DayCode is the canonical 8-digit YYYYMMDD form every date is reduced to
// before any comparison. The zero value marks an absent date and never
// compares equal to anything, itself included.
type DayCode string

// NoDay is the absent-date sentinel.
const NoDay DayCode = ""

// IsZero reports whether the code carries no date.
func (d DayCode) IsZero() bool { return d == NoDay }

// SameDay reports equality under the absent-date convention: two absent
// codes are never the same day.
func (d DayCode) SameDay(other DayCode) bool {
	if d.IsZero() || other.IsZero() {
		return false
	}
	return d == other
}

// Int returns the numeric day code, or 0 for an absent date. Useful for
// before/after ordering once both sides are known to be concrete.
func (d DayCode) Int() int {
	n, err := strconv.Atoi(string(d))
	if err != nil {
		return 0
	}
	return n
}

// Time converts the code back to a calendar date.
func (d DayCode) Time() (time.Time, error) {
	if len(d) != 8 {
		return time.Time{}, fmt.Errorf("day code %q is not an 8-digit YYYYMMDD value", string(d))
	}
	t, err := time.Parse("20060102", string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("day code %q is not a valid calendar date: %w", string(d), err)
	}
	return t, nil
}

// DayCodeOf reduces a calendar date to its day code.
func DayCodeOf(t time.Time) DayCode {
	return DayCode(t.Format("20060102"))
}

// DateValue carries a raw workbook cell that should hold a date. Wind
// exports are not type-aligned: the same column may arrive as a real date,
// a float day code or a digit string, and a cell may be empty. Normalization
// happens exactly once, through Day.
type DateValue struct {
	raw any
}

// NewDateValue wraps a raw cell value. Pass nil for an empty cell.
func NewDateValue(raw any) DateValue { return DateValue{raw: raw} }

// AbsentDate is the explicit empty-cell value.
func AbsentDate() DateValue { return DateValue{} }

// IsAbsent reports whether the cell was empty.
func (v DateValue) IsAbsent() bool { return v.raw == nil }

// Day normalizes the raw value to a DayCode. Absent cells normalize to
// NoDay. Anything that is not a date, a numeric day code or an 8-digit
// string is a data-format error; the engine never guesses.
func (v DateValue) Day() (DayCode, error) {
	switch x := v.raw.(type) {
	case nil:
		return NoDay, nil
	case time.Time:
		return DayCodeOf(x), nil
	case DayCode:
		if x.IsZero() {
			return NoDay, nil
		}
		return validateDigits(string(x))
	case float64:
		if x != math.Trunc(x) {
			return NoDay, fmt.Errorf("numeric day code %v has a fractional part", x)
		}
		return validateDigits(strconv.FormatInt(int64(x), 10))
	case int:
		return validateDigits(strconv.Itoa(x))
	case int64:
		return validateDigits(strconv.FormatInt(x, 10))
	case string:
		if x == "" {
			return NoDay, nil
		}
		return validateDigits(x)
	default:
		return NoDay, fmt.Errorf("unsupported date representation %T", v.raw)
	}
}

func validateDigits(s string) (DayCode, error) {
	if len(s) != 8 {
		return NoDay, fmt.Errorf("day code %q is not an 8-digit YYYYMMDD value", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return NoDay, fmt.Errorf("day code %q contains a non-digit character", s)
		}
	}
	return DayCode(s), nil
}
