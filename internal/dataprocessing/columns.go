package dataprocessing

import (
	"strings"
)

// Field identifies one logical column of the bond dataset.
type Field string

const (
	FieldCode          Field = "code"
	FieldName          Field = "name"
	FieldRemainingTerm Field = "remaining_term"
	FieldCoupon        Field = "coupon"
	FieldCategory      Field = "category"
	FieldRegion        Field = "region"
	FieldIssueDate     Field = "issue_date"
	FieldIssueYear     Field = "issue_year"
	FieldTaxStatus     Field = "tax_status"
	FieldTradeDate     Field = "trade_date"
	FieldYield         Field = "yield"
	FieldValuation     Field = "valuation"
	FieldFaceValue     Field = "face_value"
	FieldBalance       Field = "balance"
	FieldVolume        Field = "volume"
)

// headerAliases maps a trimmed, lower-cased header onto its field.
// 是否免税 is read as the tax-status column.
var headerAliases = map[string]Field{
	"债券代码":           FieldCode,
	"code":           FieldCode,
	"债券名称":           FieldName,
	"债券简称":           FieldName,
	"name":           FieldName,
	"剩余年限":           FieldRemainingTerm,
	"remaining_term": FieldRemainingTerm,
	"term":           FieldRemainingTerm,
	"票面":             FieldCoupon,
	"票面利率":           FieldCoupon,
	"coupon":         FieldCoupon,
	"专项一般":           FieldCategory,
	"category":       FieldCategory,
	"区域":             FieldRegion,
	"region":         FieldRegion,
	"发行日期":           FieldIssueDate,
	"issue_date":     FieldIssueDate,
	"发行年份":           FieldIssueYear,
	"issue_year":     FieldIssueYear,
	"是否交税":           FieldTaxStatus,
	"是否免税":           FieldTaxStatus,
	"tax_status":     FieldTaxStatus,
	"当前日期":           FieldTradeDate,
	"trade_date":     FieldTradeDate,
	"收盘收益率":          FieldYield,
	"yield":          FieldYield,
	"估值":             FieldValuation,
	"valuation":      FieldValuation,
	"面值":             FieldFaceValue,
	"face_value":     FieldFaceValue,
	"face":           FieldFaceValue,
	"余额":             FieldBalance,
	"balance":        FieldBalance,
	"成交量":            FieldVolume,
	"volume":         FieldVolume,
}

// matchingFields must be present in the header for the dataset to be searchable.
// Issue year may come from either the issue date or an explicit year column.
var matchingFields = []Field{
	FieldTradeDate,
	FieldRemainingTerm,
	FieldCoupon,
	FieldCategory,
	FieldRegion,
	FieldTaxStatus,
}

// columnMap records the position of every recognised header.
type columnMap map[Field]int

// mapHeader resolves header cells to fields. The first occurrence of a field wins.
func mapHeader(header []string) columnMap {
	cols := make(columnMap)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		field, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, seen := cols[field]; !seen {
			cols[field] = i
		}
	}
	return cols
}

// missing lists the matching fields absent from the header.
func (c columnMap) missing() []Field {
	var out []Field
	for _, f := range matchingFields {
		if _, ok := c[f]; !ok {
			out = append(out, f)
		}
	}
	_, hasDate := c[FieldIssueDate]
	_, hasYear := c[FieldIssueYear]
	if !hasDate && !hasYear {
		out = append(out, FieldIssueDate)
	}
	return out
}

// cell returns the trimmed value of field in row, or "" when absent.
func (c columnMap) cell(row []string, field Field) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
