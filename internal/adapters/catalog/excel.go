package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ItemRow is one catalog entry read from a workbook.
type ItemRow struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// ReadItems parses catalog rows from the first sheet of an xlsx workbook.
// Expected columns: name, description, price, stock. A first row whose price
// cell does not parse is treated as a header and skipped.
func ReadItems(r io.Reader) ([]ItemRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var out []ItemRow
	for i, row := range rows {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: invalid price %q", i+1, row[2])
		}
		stock := 0
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			stock, err = strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid stock %q", i+1, row[3])
			}
		}
		out = append(out, ItemRow{
			Name:        strings.TrimSpace(row[0]),
			Description: strings.TrimSpace(row[1]),
			Price:       price,
			Stock:       stock,
		})
	}
	return out, nil
}
