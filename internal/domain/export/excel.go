// Package export renders report rows into downloadable spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"aurum/internal/core/apperror"
	"aurum/internal/domain/reporting"
)

const sheetName = "Sheet1"

// ContentType is the xlsx MIME type for download responses.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename builds the attachment name for one report export.
func Filename(t reporting.ReportType, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", t, now.Format("2006-01-02"))
}

// Columns derives the export column keys from a descriptor's grid select
// list: the alias when one is declared, the bare column name otherwise,
// plus the aggregated totals every grid carries.
func Columns(d reporting.Descriptor) []string {
	keys := make([]string, 0, len(d.SelectColumns)+2)
	for _, col := range d.SelectColumns {
		keys = append(keys, columnKey(col))
	}
	return append(keys, "total_weight", "total_quantity")
}

func columnKey(col string) string {
	if i := strings.LastIndex(strings.ToUpper(col), " AS "); i >= 0 {
		return strings.TrimSpace(col[i+4:])
	}
	if i := strings.LastIndex(col, "."); i >= 0 {
		return col[i+1:]
	}
	return col
}

// WriteExcel renders the rows as a single-sheet workbook: one header row
// of column keys, one data row per grid row, written straight to w.
func WriteExcel(w io.Writer, columns []string, rows []reporting.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, key := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return apperror.NewInternal(err)
		}
		if err := f.SetCellValue(sheetName, cell, key); err != nil {
			return apperror.NewInternal(err)
		}
	}

	for r, row := range rows {
		for c, key := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return apperror.NewInternal(err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(row[key])); err != nil {
				return apperror.NewInternal(err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

// cellValue normalizes database values into types excelize renders
// predictably.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case decimal.Decimal:
		return val.String()
	case []byte:
		return string(val)
	default:
		return val
	}
}
