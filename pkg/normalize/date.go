package normalize

import (
	"fmt"
	"regexp"
	"time"

	"github.com/yurifrl/fintszen/pkg/models"
)

type dateRule struct {
	pattern *regexp.Regexp
	layout  string
	hasYear bool
}

// dateRules is scanned in full on every memo. When several rules match, the
// last one wins. Rules with a capture group parse the group instead of the
// whole match.
var dateRules = []dateRule{
	// 2019-02-12T17:05:47
	{regexp.MustCompile(`\d{4}-\d\d-\d\dT\d\d:\d\d:\d\d`), "2006-01-02T15:04:05", true},
	// 2019.02.12T17.05.47
	{regexp.MustCompile(`\d{4}\.\d\d\.\d\dT\d\d\.\d\d\.\d\d`), "2006.01.02T15.04.05", true},
	// 14.02 163532
	{regexp.MustCompile(`\d\d\.\d\d \d{6}`), "02.01 150405", false},
	// 21.02164412ARN
	{regexp.MustCompile(`\d\d\.\d{8}ARN`), "02.01150405ARN", false},
	// 12.02 09.56
	{regexp.MustCompile(`\d\d\.\d\d \d\d\.\d\d`), "02.01 15.04", false},
	// 08.01 09:00
	{regexp.MustCompile(`(?:^|\s)(\d\d\.\d\d \d\d:\d\d)(?:\s|$)`), "02.01 15:04", false},
	// 08.0109.00
	{regexp.MustCompile(`(?:^|\s)(\d\d\.\d{4}\.\d\d)(?:\s|$)`), "02.0115.04", false},
	// 01.02.2019
	{regexp.MustCompile(`\d\d\.\d\d\.\d{4}`), "02.01.2006", true},
}

func (r dateRule) find(s string) string {
	m := r.pattern.FindStringSubmatch(s)
	switch len(m) {
	case 0:
		return ""
	case 1:
		return m[0]
	default:
		return m[1]
	}
}

// DateRecoverer extracts the real transaction date from bank memo text.
type DateRecoverer struct {
	// Now supplies the current year for day.month values that only exist in
	// leap years. Defaults to time.Now.
	Now func() time.Time
}

// Recover scans memo for a known date pattern and returns the recovered
// calendar date. Without a match the fallback date is returned. Dates that
// carry no year take the fallback's year, or the year before when a December
// date is booked in January.
func (r *DateRecoverer) Recover(memo string, fallback time.Time) time.Time {
	var (
		date    time.Time
		found   bool
		hasYear bool
	)
	for _, rule := range dateRules {
		text := rule.find(memo)
		if text == "" {
			continue
		}
		d, withYear, ok := r.parse(text, rule)
		if !ok {
			continue
		}
		date, hasYear, found = d, withYear, true
	}

	if !found {
		return models.Day(fallback)
	}
	if !hasYear {
		year := fallback.Year()
		if fallback.Month() == time.January && date.Month() == time.December {
			year--
		}
		date = time.Date(year, date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return date
}

func (r *DateRecoverer) parse(text string, rule dateRule) (time.Time, bool, bool) {
	if t, err := time.Parse(rule.layout, text); err == nil && (rule.hasYear || validWithoutYear(t)) {
		return models.Day(t), rule.hasYear, true
	}

	// Truncated tails like 08.12360904ARN still start with day.month.
	head := text
	if len(head) > 5 {
		head = head[:5]
	}
	if t, err := time.Parse("02.01", head); err == nil && validWithoutYear(t) {
		return models.Day(t), false, true
	}

	// 29.02 needs a year to be valid at all.
	if t, err := time.Parse("02.01.2006", fmt.Sprintf("%s.%d", head, r.now().Year())); err == nil {
		return models.Day(t), true, true
	}
	return time.Time{}, false, false
}

func (r *DateRecoverer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// validWithoutYear rejects dates that exist only in leap years. Year-less
// values are later moved to a concrete year that may not be one.
func validWithoutYear(t time.Time) bool {
	return !(t.Month() == time.February && t.Day() == 29)
}

var defaultRecoverer = &DateRecoverer{}

// RecoverDate is DateRecoverer.Recover with the system clock, formatted as
// an ISO date.
func RecoverDate(memo string, fallback time.Time) string {
	return defaultRecoverer.Recover(memo, fallback).Format(models.DateLayout)
}
