package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecoverDate(t *testing.T) {
	r := &DateRecoverer{Now: func() time.Time { return day(2024, time.June, 1) }}

	tests := []struct {
		name     string
		memo     string
		fallback time.Time
		want     time.Time
	}{
		{"day month with clock time", "08.01 09:00 ZAHLUNG", day(2019, time.May, 1), day(2019, time.January, 8)},
		{"no pattern", "Miete Wohnung", day(2020, time.March, 15), day(2020, time.March, 15)},
		{"iso timestamp", "KARTE 2019-02-12T17:05:47 REWE", day(2019, time.February, 14), day(2019, time.February, 12)},
		{"dotted timestamp", "POS 2019.02.12T17.05.47", day(2019, time.February, 14), day(2019, time.February, 12)},
		{"day month six digit time", "VISA 14.02 163532 SHOP", day(2019, time.February, 18), day(2019, time.February, 14)},
		{"arn suffix", "21.02164412ARN123", day(2019, time.February, 25), day(2019, time.February, 21)},
		{"day month dotted time", "Kartenzahlung 12.02 09.56", day(2019, time.February, 13), day(2019, time.February, 12)},
		{"packed day month time", "GA 08.0109.00 Automat", day(2019, time.January, 9), day(2019, time.January, 8)},
		{"full date", "Rechnung vom 01.02.2019", day(2019, time.March, 1), day(2019, time.February, 1)},
		{"truncated arn falls back to day month", "08.12360904ARN", day(2019, time.December, 10), day(2019, time.December, 8)},
		{"december booked in january", "Kartenzahlung 28.12 10.15", day(2021, time.January, 4), day(2020, time.December, 28)},
		{"december booked in december", "Kartenzahlung 28.12 10.15", day(2021, time.December, 30), day(2021, time.December, 28)},
		{"leap day without year uses current year", "29.02 10.15 Tankstelle", day(2024, time.March, 2), day(2024, time.February, 29)},
		{"fallback time of day dropped", "nothing here", time.Date(2020, 3, 15, 13, 45, 0, 0, time.UTC), day(2020, time.March, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Recover(tt.memo, tt.fallback))
		})
	}
}

func TestRecoverDateLastMatchWins(t *testing.T) {
	r := &DateRecoverer{}
	// Both the ISO timestamp rule and the later full date rule match; the
	// later rule decides.
	got := r.Recover("2019-02-12T17:05:47 Rechnung 01.02.2019", day(2019, time.March, 1))
	assert.Equal(t, day(2019, time.February, 1), got)
}

func TestRecoverDateLeapDayInCommonYear(t *testing.T) {
	r := &DateRecoverer{Now: func() time.Time { return day(2023, time.June, 1) }}
	got := r.Recover("29.02 10.15 Tankstelle", day(2023, time.March, 2))
	assert.Equal(t, day(2023, time.March, 2), got)
}

func TestRecoverDateString(t *testing.T) {
	assert.Equal(t, "2019-01-08", RecoverDate("08.01 09:00 ZAHLUNG", day(2019, time.May, 1)))
	assert.Equal(t, "2020-03-15", RecoverDate("no date", day(2020, time.March, 15)))
}
