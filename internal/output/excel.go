// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

// ExcelReportConfig tunes the inventory workbook.
type ExcelReportConfig struct {
	SheetName    string
	AutoFilter   bool
	FreezeHeader bool
}

var inventoryHeader = []string{
	"Record ID", "Source", "Title", "Status", "#", "Detected Type", "MIME Type",
	"Detected By", "Display Filename", "Safe Filename", "Canonical URL", "Size",
}

// WriteInventoryReport writes one row per attachment across the given
// records. Records without attachments are skipped.
func WriteInventoryReport(path string, records []pipeline.Announcement, config ExcelReportConfig) error {
	if config.SheetName == "" {
		config.SheetName = "Attachments"
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := config.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for col, title := range inventoryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(inventoryHeader), 1)
		f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	row := 2
	for _, record := range records {
		for i, att := range record.Attachments {
			values := []interface{}{
				record.ID, record.Source, record.Title, string(record.Status), i + 1,
				string(att.DetectedType), att.MIMEType, att.DetectedBy,
				att.DisplayFilename, att.SafeFilename, att.CanonicalURL, att.Size,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return fmt.Errorf("data cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("writing row %d: %w", row, err)
				}
			}
			row++
		}
	}

	if config.AutoFilter && row > 2 {
		lastCell, _ := excelize.CoordinatesToCellName(len(inventoryHeader), row-1)
		if err := f.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
			return fmt.Errorf("applying autofilter: %w", err)
		}
	}
	if config.FreezeHeader {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freezing header: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
