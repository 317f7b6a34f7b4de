package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"github.com/yurifrl/fintszen/pkg/models"
)

const maxXLSRows = 10000

// ParseXLS parses the first sheet of an XLS statement export. Rows before
// the first transaction row (titles, headers) are ignored.
func (p *Parser) ParseXLS(data []byte) ([]models.BankRecord, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	var records []models.BankRecord
	for _, row := range rows {
		rec, ok := p.parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
