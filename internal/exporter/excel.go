// Package exporter renders monthly summaries as Excel workbooks for the
// dashboard's download button.
package exporter

import (
	"bytes"
	"fmt"

	"recruit-metrics/internal/models"

	"github.com/xuri/excelize/v2"
)

var summaryHeader = []string{
	"Source",
	"Display Count",
	"View Count",
	"View Rate",
	"Redirect Count",
	"Application Count",
	"Application Rate",
	"Abnormal",
	"Search Rank",
}

var summaryColumnWidths = []float64{14, 14, 12, 10, 14, 16, 15, 10, 12}

// GenerateMonthlySummary renders one monthly summary as an xlsx workbook:
// a combined row, one row per portal, and the manual metrics block below.
func GenerateMonthlySummary(summary *models.MonthlySummary) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only on the exit paths.

	sheetName := "Monthly KPI"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	title := fmt.Sprintf("Recruitment KPI %s / %s / %s",
		summary.ClinicID, summary.Month, models.JobTypeOrAll(summary.JobType))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set title: %w", err)
	}

	for col, header := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range summaryColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	rows := make([][]any, 0, len(summary.Sources)+1)
	rows = append(rows, []any{
		"combined",
		summary.TotalDisplayCount,
		summary.TotalViewCount,
		summary.ViewRate,
		summary.TotalRedirectCount,
		summary.TotalApplicationCount,
		summary.ApplicationRate,
		yesNo(summary.Abnormal),
		"",
	})
	for _, src := range summary.Sources {
		rank := any("")
		if src.SearchRank != nil {
			rank = *src.SearchRank
		}
		rows = append(rows, []any{
			src.Source,
			src.TotalDisplayCount,
			src.TotalViewCount,
			src.ViewRate,
			src.TotalRedirectCount,
			src.TotalApplicationCount,
			src.ApplicationRate,
			yesNo(src.Abnormal),
			rank,
		})
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// Manual metrics block. Cells stay blank when nothing was entered this
	// month so the operator can tell "not entered" from an explicit zero.
	manualRow := len(rows) + 4
	manual := [][]any{
		{"Scout Messages Sent", summary.ScoutSentTotal},
		{"Scout Message Replies", summary.ScoutReplyMsgTotal},
		{"Scout Reply Rate", summary.ScoutReplyRate},
		{"Scout Reply Count", intPtrCell(summary.ScoutReplyTotal)},
		{"Interview Count", intPtrCell(summary.InterviewTotal)},
	}
	for i, pair := range manual {
		labelCell, err := excelize.CoordinatesToCellName(1, manualRow+i)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, labelCell, pair[0]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set cell %s: %w", labelCell, err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, manualRow+i)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, valueCell, pair[1]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set cell %s: %w", valueCell, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func intPtrCell(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
