package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"2006年1月2日",
	"20060102",
	"01/02/2006",
	"1/2/06",
}

// parseFloat removes thousands separators and percent signs before parsing.
// Blank and unparsable values return ok=false.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "-" || s == "--" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOptionalFloat is parseFloat for display-only columns.
func parseOptionalFloat(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

// parseDate accepts the common textual layouts as well as Excel serial day numbers.
// The result is truncated to the calendar day in UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayOf(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return dayOf(t), true
		}
	}
	return time.Time{}, false
}

// parseYear reads an explicit issue-year cell such as "2021" or "2021.0".
func parseYear(s string) (int, bool) {
	v, ok := parseFloat(s)
	if !ok || v < 1900 || v > 2200 {
		return 0, false
	}
	return int(v), true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
