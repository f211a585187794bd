package exporter

import (
	"fmt"
	"strings"
	"time"

	"bondmatch/pkg/contracts/domain"
)

// Format is an export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "", fmt.Errorf("export path %q has no extension", path)
	}
	return ParseFormat(path[idx+1:])
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename names an export produced at t
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("similar_bonds_%s.%s", t.Format("20060102_150405"), f)
}

// DisplayHeaders are the exported columns, in order
var DisplayHeaders = []string{
	"债券代码", "债券名称", "剩余年限", "当前日期", "收盘收益率", "估值",
	"票面", "区域", "专项一般", "是否交税", "发行日期", "余额", "成交量",
}

const dateLayout = "2006-01-02"

func formatTerm(f float64) string   { return fmt.Sprintf("%.2f", f) }
func formatCoupon(f float64) string { return fmt.Sprintf("%.2f", f) }

// formatOptional renders a nullable market value with the given verb, or "" when absent
func formatOptional(v *float64, verb string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(verb, *v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DisplayRow renders one bond in DisplayHeaders order
func DisplayRow(b domain.BondRecord) []string {
	return []string{
		b.Code,
		b.Name,
		formatTerm(b.RemainingTerm),
		formatDate(b.TradeDate),
		formatOptional(b.Yield, "%.4f"),
		formatOptional(b.Valuation, "%.4f"),
		formatCoupon(b.Coupon),
		b.Region,
		b.Category,
		b.TaxStatus,
		formatDate(b.IssueDate),
		formatOptional(b.Balance, "%.2f"),
		formatOptional(b.Volume, "%.0f"),
	}
}
