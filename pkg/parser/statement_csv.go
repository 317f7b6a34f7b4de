package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yurifrl/fintszen/pkg/models"
)

// ParseCSV parses a semicolon separated statement export.
func (p *Parser) ParseCSV(data []byte) ([]models.BankRecord, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // balance and header lines have fewer fields
	reader.LazyQuotes = true

	var records []models.BankRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}

		rec, ok := p.parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
