package publist

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/matsen/pubpage/internal/reference"
)

// Defaults applied when a record has no month or year.
const (
	DefaultMonth = "January"
	DefaultYear  = "0"
)

// SortKey orders entries chronologically. Month is 1-12.
type SortKey struct {
	Year  int
	Month int
}

// Compare returns -1, 0, or +1 comparing year first, then month.
func (k SortKey) Compare(o SortKey) int {
	if c := cmp.Compare(k.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.Month, o.Month)
}

// DateError reports a month or year field that could not be parsed.
type DateError struct {
	Key   string
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("entry %s: cannot parse %s %q", e.Key, e.Field, e.Value)
}

// ResolveSortKey computes the sort key for a record from its month and year
// fields. Absent or blank fields take the defaults; anything else that is
// not a full month name or a non-negative integer year is a DateError.
func ResolveSortKey(rec reference.Record) (SortKey, error) {
	monthText := strings.TrimSpace(rec.Field(reference.FieldMonth, ""))
	if monthText == "" {
		monthText = DefaultMonth
	}
	yearText := strings.TrimSpace(rec.Field(reference.FieldYear, ""))
	if yearText == "" {
		yearText = DefaultYear
	}

	month, ok := ParseMonth(monthText)
	if !ok {
		return SortKey{}, &DateError{Key: rec.Key, Field: reference.FieldMonth, Value: monthText}
	}

	year, err := strconv.Atoi(yearText)
	if err != nil || year < 0 || strings.HasPrefix(yearText, "+") {
		return SortKey{}, &DateError{Key: rec.Key, Field: reference.FieldYear, Value: yearText}
	}

	return SortKey{Year: year, Month: month}, nil
}

// ParseMonth matches a full month name, ignoring case. It returns 1-12.
func ParseMonth(s string) (int, bool) {
	fold := cases.Fold()
	folded := fold.String(strings.TrimSpace(s))
	for i, name := range reference.MonthNames {
		if folded == fold.String(name) {
			return i + 1, true
		}
	}
	return 0, false
}
