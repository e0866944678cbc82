package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"pe-insights-go/internal/types"
)

var exportHeader = []string{
	"Company Name", "Ownership Category", "Public/Private", "Nation",
	"PE Owners", "Ownership Summary", "Error",
}

// ExportXLSX writes the report as a downloadable spreadsheet, one row per
// record, in source order.
func ExportXLSX(rep types.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range rep.Records {
		row := []string{
			r.DisplayName,
			r.OwnershipCategory,
			r.PublicPrivateStatus,
			r.Jurisdiction,
			strings.Join(r.OwningFirmNames, ", "),
			r.OwnershipSummary,
			r.AnalysisError,
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
