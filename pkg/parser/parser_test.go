package parser

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessBytesCSV(t *testing.T) {
	content := []byte("Buchungstag;Auftraggeber/Empfänger;Verwendungszweck;Betrag;Währung\n" +
		"17.03.2025;REWE Markt;VISA 14.03 163532;-23,40;EUR\n" +
		"18.03.2025;Bargeldauszahlung ATM 55;GA 08.0109.00;-1.000,00;EUR\n" +
		"19.03.2025;;Rechnungsabschluss;0,00;eur\n" +
		"Saldo;;;;\n" +
		"2025-03-20;ACME GmbH;\"Gehalt; Maerz\";2500.10\n")

	parser := New(log.New(io.Discard))
	records, err := parser.ProcessBytes(content, "giro.csv")
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "REWE Markt", records[0].ApplicantName)
	assert.Equal(t, "VISA 14.03 163532", records[0].Purpose)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("-23.40")))
	assert.Equal(t, "EUR", records[0].Currency)

	assert.True(t, records[1].Amount.Equal(decimal.NewFromInt(-1000)))

	assert.True(t, records[2].Amount.IsZero())
	assert.Empty(t, records[2].ApplicantName)
	assert.Equal(t, "EUR", records[2].Currency)

	assert.Equal(t, "Gehalt; Maerz", records[3].Purpose)
	assert.True(t, records[3].Amount.Equal(decimal.RequireFromString("2500.10")))
	assert.Empty(t, records[3].Currency)
}

func TestProcessBytesUnknownType(t *testing.T) {
	parser := New(log.New(io.Discard))
	_, err := parser.ProcessBytes([]byte("x"), "statement.pdf")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"-23,40":    "-23.40",
		"1.234,56":  "1234.56",
		"-1234.56":  "-1234.56",
		" 12 ":      "12",
		"1 000,5":   "1000.5",
	}
	for in, want := range tests {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: got %s", in, got)
	}

	_, err := parseAmount("abc")
	assert.Error(t, err)
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, StatementCSV, detectType("Umsaetze.CSV"))
	assert.Equal(t, StatementCSV, detectType("export.txt"))
	assert.Equal(t, StatementXLS, detectType("giro.xls"))
	assert.Equal(t, FileType(""), detectType("giro.xlsx"))
}
