package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleHeader is the column layout of the sample dataset export
var SampleHeader = []string{"债券代码", "债券名称", "剩余年限", "当前日期", "收盘收益率", "估值", "票面", "区域", "专项一般", "是否交税", "发行日期", "余额", "成交量"}

// SampleRows returns the header plus a small market snapshot with
// known search outcomes:
//
//   - 浙江 with term 5.0, coupon 3.2, 专项, 2021, 否 matches B1 and B2 at level 0
//   - 州 resolves to 广州市 (tie with 贵州省) and matches B6 for term 10.0, coupon 3.0, 一般, 2020, 否
//   - B7 trades outside the five most recent dates and is dropped on load
func SampleRows() [][]string {
	return [][]string{
		SampleHeader,
		{"B1", "24浙江01", "5.0", "2024-03-08", "2.51", "2.49", "3.20", "浙江省", "专项", "否", "2021-06-01", "100", "30"},
		{"B2", "24浙江02", "5.2", "2024-03-08", "2.55", "2.54", "3.40", "浙江省", "专项", "否", "2022-01-10", "80", "12"},
		{"B3", "23浙江05", "5.6", "2024-03-07", "2.60", "2.58", "3.60", "浙江省", "一般", "否", "2021-03-01", "50", ""},
		{"B4", "22安徽03", "7.0", "2024-03-06", "2.70", "2.71", "2.90", "安徽省", "一般", "是", "2020-01-15", "60", "5"},
		{"B5", "21贵州08", "3.0", "2024-03-05", "3.10", "3.05", "4.00", "贵州省", "专项", "否", "2019-05-20", "40", ""},
		{"B6", "20广州02", "10.0", "2024-03-04", "2.80", "2.79", "3.00", "广州市", "一般", "否", "2020-08-01", "90", "7"},
		{"B7", "21广东01", "4.0", "2024-02-01", "2.40", "2.41", "3.10", "广东省", "专项", "否", "2021-01-01", "70", ""},
	}
}

// WriteDataset writes rows as a CSV file under dir and returns its path
func WriteDataset(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}
