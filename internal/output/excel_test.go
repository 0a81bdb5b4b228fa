// internal/output/excel_test.go
package output

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/oby500/bizinfo-automation-sub001/internal/filetype"
	"github.com/oby500/bizinfo-automation-sub001/internal/pipeline"
)

func TestWriteInventoryReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	records := []pipeline.Announcement{
		{
			ID:     "KS_1",
			Source: "kstartup",
			Title:  "2025년 창업지원 공고",
			Status: pipeline.StatusCompleted,
			Attachments: []pipeline.Attachment{
				testAttachment("AAA"),
				{
					CanonicalURL:    "https://www.k-startup.go.kr/afile/fileDownload/BBB",
					DetectedType:    filetype.TypeHWP,
					DetectedBy:      filetype.ByExtension,
					DisplayFilename: "신청서.hwp",
					SafeFilename:    "KS_1_02.hwp",
				},
			},
		},
		{ID: "KS_2", Source: "kstartup", Status: pipeline.StatusCompleted},
	}

	err := WriteInventoryReport(path, records, ExcelReportConfig{
		AutoFilter:   true,
		FreezeHeader: true,
	})
	if err != nil {
		t.Fatalf("WriteInventoryReport() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attachments")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// Header plus one row per attachment; KS_2 has none and is skipped.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Record ID" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "KS_1" || rows[1][2] != "2025년 창업지원 공고" || rows[1][5] != "PDF" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[2][8] != "신청서.hwp" || rows[2][9] != "KS_1_02.hwp" {
		t.Errorf("second data row = %v", rows[2])
	}
}
