package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bondmatch/pkg/contracts/domain"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorError  = lipgloss.Color("#E74C3C")
)

var styles = struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Label:  lipgloss.NewStyle().Bold(true).Width(6),
	Muted:  lipgloss.NewStyle().Faint(true),
	Warn:   lipgloss.NewStyle().Foreground(colorWarn),
	Error:  lipgloss.NewStyle().Foreground(colorError),
	Header: lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),
}

// renderTable draws rows under headers with the CLI border style
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			return styles.Cell
		}).
		String()
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", styles.Label.Render(label), value)
}

func tierText(t domain.RegionTier) string {
	return fmt.Sprintf("%s (%s)", t, t.Label())
}

func levelRows(levels []domain.ToleranceLevel) [][]string {
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		strict := "否"
		if l.StrictCategory {
			strict = "是"
		}
		rows = append(rows, []string{
			fmt.Sprintf("L%d", l.Index),
			l.Name,
			fmt.Sprintf("±%.1f", l.TermTolerance),
			fmt.Sprintf("±%.1f", l.CouponTolerance),
			strict,
		})
	}
	return rows
}

func regionRows(regions []domain.RegionInfo) [][]string {
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{r.Region, tierText(r.Tier)})
	}
	return rows
}

func curveRows(points []domain.CurvePoint) [][]string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Code,
			p.Name,
			fmt.Sprintf("%.2f", p.Term),
			fmt.Sprintf("%.4f", p.Yield),
			string(p.Tier),
			p.TaxStatus,
		})
	}
	return rows
}

func writeSearchResult(w io.Writer, result domain.SearchResult, rows [][]string, headers []string) {
	fmt.Fprintln(w, styles.Title.Render("相似债券匹配"))
	field(w, "地区", fmt.Sprintf("%s %s", result.Region.Region, tierText(result.Region.Tier)))
	if len(result.Region.Candidates) > 1 {
		field(w, "候选", styles.Warn.Render(strings.Join(result.Region.Candidates, ", ")))
	}
	field(w, "档位", fmt.Sprintf("L%d %s", result.Level, result.LevelName))
	field(w, "说明", result.Note)
	field(w, "匹配", fmt.Sprintf("%d", result.MatchCount))

	if result.Exhausted {
		fmt.Fprintln(w, styles.Warn.Render("未找到相似债券"))
		return
	}
	fmt.Fprintln(w, renderTable(headers, rows))
}
