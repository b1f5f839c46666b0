package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"rental_ledger/internal/domain"
)

// FirstDataRow is where rows start under the template's title and header.
const FirstDataRow = 5

// Reader yields import rows from the active sheet of a workbook.
type Reader struct {
	f *excelize.File
}

func Open(r io.Reader) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Reader{f: f}, nil
}

func OpenFile(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Reader{f: f}, nil
}

func (r *Reader) Close() error { return r.f.Close() }

// Rows returns columns A..D (property, date, price, guest) of every row from
// FirstDataRow on. Date cells stored as serials come back as YYYY-MM-DD.
func (r *Reader) Rows() ([]domain.ImportRow, error) {
	sheet := r.f.GetSheetName(r.f.GetActiveSheetIndex())
	raw, err := r.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	date1904 := false
	if props, err := r.f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var out []domain.ImportRow
	for i := FirstDataRow - 1; i < len(raw); i++ {
		cols := raw[i]
		row := domain.ImportRow{
			Row:      i + 1,
			Property: col(cols, 0),
			Date:     serialToDate(col(cols, 1), date1904),
			Price:    col(cols, 2),
			Guest:    col(cols, 3),
		}
		out = append(out, row)
	}
	return out, nil
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return strings.TrimSpace(cols[i])
	}
	return ""
}

// serialToDate turns an Excel date serial into YYYY-MM-DD and leaves any
// other text as it is.
func serialToDate(s string, date1904 bool) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return s
	}
	t, err := excelize.ExcelDateToTime(f, date1904)
	if err != nil {
		return s
	}
	return domain.DateOf(t).String()
}
