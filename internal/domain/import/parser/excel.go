package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
)

// maxHeaderScan bounds how many leading rows may hold bank metadata.
const maxHeaderScan = 20

// ParseExcel reads transactions from an .xlsx statement. Rows go through the
// same column mapping and normalization as delimited files.
func (p *Parser) ParseExcel(data []byte) *ParseResult {
	result := &ParseResult{}

	// Raw values keep date cells as serial numbers instead of locale-formatted text.
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "file", Message: fmt.Sprintf("failed to open Excel file: %v", err)})
		return result
	}
	defer f.Close()

	sheetName := findTransactionSheet(f)
	if sheetName == "" {
		result.Errors = append(result.Errors, ParseError{Column: "file", Message: "no suitable sheet found"})
		return result
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "file", Message: fmt.Sprintf("failed to read sheet %s: %v", sheetName, err)})
		return result
	}

	headerIdx, cols, err := p.findHeader(rows)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "header", Message: err.Error()})
		return result
	}
	result.Layout = cols.layout

	records := rows[headerIdx+1:]
	rowNums := make([]int, len(records))
	for i := range records {
		rowNums[i] = headerIdx + i + 2
	}
	p.addRecords(result, rows[headerIdx], records, rowNums, cols, serialToISODate)
	return result
}

// serialToISODate converts an Excel date serial ("45293") to YYYY-MM-DD.
// Anything else is returned unchanged for the normal date parser.
func serialToISODate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return normalizer.FormatISO(t)
}

// findHeader returns the first row within maxHeaderScan that maps to a usable
// column layout. The error of the first non-empty row is reported otherwise.
func (p *Parser) findHeader(rows [][]string) (int, columnMap, error) {
	var firstErr error
	for i, row := range rows {
		if i >= maxHeaderScan {
			break
		}
		if isBlankRecord(row) {
			continue
		}
		cols, err := p.resolveColumns(row)
		if err == nil {
			return i, cols, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("%w: sheet is empty", ErrMissingColumn)
	}
	return 0, columnMap{}, firstErr
}

// findTransactionSheet prefers a sheet named like a statement, else the first.
func findTransactionSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}

	preferredNames := []string{"transactions", "statement", "activity", "data", "sheet1"}
	for _, preferred := range preferredNames {
		for _, sheet := range sheets {
			if strings.EqualFold(sheet, preferred) {
				return sheet
			}
		}
	}

	return sheets[0]
}
