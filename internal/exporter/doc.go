// Package exporter writes similar-bond search results as CSV or XLSX.
//
// CSV output starts with a UTF-8 BOM so Excel detects the encoding, and
// formats term and coupon with two decimals, yield and valuation with four,
// balance with two and volume with none. XLSX output keeps numbers numeric
// and adds a second sheet describing the search.
//
//	format, _ := exporter.ParseFormat("xlsx")
//	err := exporter.Write(w, format, result)
package exporter
