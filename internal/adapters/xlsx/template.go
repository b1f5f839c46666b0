package xlsx

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const TemplateFilename = "Rentals_Import_Template.xlsx"

// Template writes an empty import workbook: title and instructions in rows
// 1-3, the header in row 4 and data expected from FirstDataRow.
func Template(w io.Writer, properties []string) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}
	sh := "Occupancy"
	if err := f.SetSheetName("Sheet1", sh); err != nil {
		return err
	}
	if err := setRow(f, sh, 1, "Occupancy import"); err != nil {
		return err
	}
	if err := setRow(f, sh, 2, "One row per night. Dates as YYYY-MM-DD or DD/MM/YYYY; prices in USD."); err != nil {
		return err
	}
	if err := setRow(f, sh, 3, "Example:", "TIDES 14 B", "2025-01-15", 150, "John Smith"); err != nil {
		return err
	}
	if err := header(f, st, sh, 4, "Property", "Date", "Price", "Guest"); err != nil {
		return err
	}
	if len(properties) > 0 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = "A5:A1000"
		if err := dv.SetDropList(properties); err != nil {
			return err
		}
		if err := f.AddDataValidation(sh, dv); err != nil {
			return err
		}
	}
	if err := widths(f, sh, 15, 12, 10, 25); err != nil {
		return err
	}
	return f.Write(w)
}
