package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/models"
)

type FileType string

const (
	StatementCSV FileType = "statement_csv"
	StatementXLS FileType = "statement_xls"
)

// Statement exports carry these columns in this order:
// booking date; applicant name; purpose; amount; currency.
const (
	colDate = iota
	colApplicant
	colPurpose
	colAmount
	colCurrency
	minColumns = colAmount + 1
)

var dateLayouts = []string{"02.01.2006", "2006-01-02", "02.01.06"}

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ProcessBytes parses a statement export into raw bank records. The file
// type is taken from the file name extension.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.BankRecord, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	switch fileType {
	case StatementCSV:
		return p.ParseCSV(data)
	case StatementXLS:
		return p.ParseXLS(data)
	default:
		return nil, fmt.Errorf("unknown file type: %s", filename)
	}
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return StatementCSV
	case ".xls":
		return StatementXLS
	default:
		return ""
	}
}

// parseRow converts one statement row. ok is false for rows that are not
// transactions, such as headers and balance lines.
func (p *Parser) parseRow(row []string) (models.BankRecord, bool) {
	if len(row) < minColumns {
		return models.BankRecord{}, false
	}

	date, err := parseDate(row[colDate])
	if err != nil {
		p.logger.Debug("skipping row without booking date", "row", row)
		return models.BankRecord{}, false
	}

	amount, err := parseAmount(row[colAmount])
	if err != nil {
		p.logger.Debug("error parsing amount", "row", row, "error", err)
		return models.BankRecord{}, false
	}

	rec := models.BankRecord{
		Date:          date,
		ApplicantName: strings.TrimSpace(row[colApplicant]),
		Purpose:       strings.TrimSpace(row[colPurpose]),
		Amount:        amount,
	}
	if len(row) > colCurrency {
		rec.Currency = strings.ToUpper(strings.TrimSpace(row[colCurrency]))
	}
	return rec, true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseAmount accepts German formatted amounts (1.234,56) as well as plain
// decimals (-1234.56).
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")  // thousand separators
		s = strings.ReplaceAll(s, ",", ".") // decimal separator
	}
	return decimal.NewFromString(s)
}
