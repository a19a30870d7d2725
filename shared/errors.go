package shared

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorCategory classifies the failures a single IPO row can produce.
type ErrorCategory string

const (
	// ErrorCategoryBoard marks an instrument code whose prefix matches no
	// known board. Every downstream rule depends on the board, so the row
	// cannot be classified at all.
	ErrorCategoryBoard ErrorCategory = "board"
	// ErrorCategoryTrack marks a raw track indicator naming neither the
	// online nor the offline track.
	ErrorCategoryTrack ErrorCategory = "track"
	// ErrorCategoryDateFormat marks a date cell that is not a date, a
	// numeric day code, or absent.
	ErrorCategoryDateFormat ErrorCategory = "date_format"
	// ErrorCategoryMissingNumeric marks a derived value that could not be
	// computed because an input was absent. The record still enters the
	// calendar with the derived value absent.
	ErrorCategoryMissingNumeric ErrorCategory = "missing_numeric"
	// ErrorCategoryIngest marks a workbook that could not be read into
	// typed rows.
	ErrorCategoryIngest ErrorCategory = "ingest"
)

// RecordError is a failure local to one IPO record's construction. The
// calendar builder collects these alongside the partial view instead of
// aborting the run.
type RecordError struct {
	Category ErrorCategory `json:"category"`
	Code     string        `json:"code"`
	Field    string        `json:"field,omitempty"`
	Message  string        `json:"message"`
	Cause    error         `json:"-"`
}

func (e *RecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s %s: %s", e.Category, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

func (e *RecordError) Unwrap() error { return e.Cause }

// NewRecordError builds a record error; cause may be nil.
func NewRecordError(category ErrorCategory, code, field, message string, cause error) *RecordError {
	return &RecordError{
		Category: category,
		Code:     code,
		Field:    field,
		Message:  message,
		Cause:    cause,
	}
}

// Log emits the error with structured fields at warning level. Row-local
// failures are expected data quality noise, not engine faults.
func (e *RecordError) Log() {
	logrus.WithFields(logrus.Fields{
		"error_category":  e.Category,
		"instrument_code": e.Code,
		"field":           e.Field,
		"cause":           e.Cause,
	}).Warn(e.Message)
}

// IsFatalToRecord reports whether the category prevents the record from
// entering the calendar at all. Missing-numeric diagnostics keep the record
// with partial data.
func (e *RecordError) IsFatalToRecord() bool {
	return e.Category != ErrorCategoryMissingNumeric
}
