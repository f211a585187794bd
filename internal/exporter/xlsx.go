package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bondmatch/pkg/contracts/domain"
)

const (
	matchesSheet = "匹配结果"
	querySheet   = "查询条件"
)

// WriteMatchesXLSX writes a workbook with the matched bonds on the first
// sheet and the search parameters on the second.
func WriteMatchesXLSX(w io.Writer, result domain.SearchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", matchesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(DisplayHeaders))
	for i, h := range DisplayHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(matchesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(DisplayHeaders), 1)
	if err := f.SetCellStyle(matchesSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, b := range result.Matches {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := xlsxRow(b)
		if err := f.SetSheetRow(matchesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(DisplayHeaders))
	_ = f.SetColWidth(matchesSheet, "A", lastCol, 14)

	if err := writeQuerySheet(f, result, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxRow keeps numbers numeric so spreadsheet formulas work on the export
func xlsxRow(b domain.BondRecord) []interface{} {
	opt := func(v *float64) interface{} {
		if v == nil {
			return ""
		}
		return *v
	}
	return []interface{}{
		b.Code,
		b.Name,
		b.RemainingTerm,
		formatDate(b.TradeDate),
		opt(b.Yield),
		opt(b.Valuation),
		b.Coupon,
		b.Region,
		b.Category,
		b.TaxStatus,
		formatDate(b.IssueDate),
		opt(b.Balance),
		opt(b.Volume),
	}
}

func writeQuerySheet(f *excelize.File, result domain.SearchResult, bold int) error {
	if _, err := f.NewSheet(querySheet); err != nil {
		return fmt.Errorf("failed to add query sheet: %w", err)
	}

	rows := [][]interface{}{
		{"剩余年限", result.Target.Term},
		{"票面", result.Target.Coupon},
		{"专项一般", result.Target.Category},
		{"发行年份", result.Target.IssueYear},
		{"是否交税", result.Target.TaxStatus},
		{"区域查询", result.Region.Query},
		{"匹配区域", result.Region.Region},
		{"区域档位", string(result.Region.Tier)},
		{"放松档位", result.LevelName},
		{"说明", result.Note},
		{"匹配数量", result.MatchCount},
	}
	if !result.SearchedAt.IsZero() {
		rows = append(rows, []interface{}{"查询时间", result.SearchedAt.Format("2006-01-02 15:04:05")})
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		if err := f.SetSheetRow(querySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write query row: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(rows))
	_ = f.SetCellStyle(querySheet, "A1", last, bold)
	_ = f.SetColWidth(querySheet, "A", "A", 12)
	_ = f.SetColWidth(querySheet, "B", "B", 40)
	return nil
}
