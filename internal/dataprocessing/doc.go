// Package dataprocessing turns bond dataset files into search-ready datasets.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Parser: reads the raw cell grid of a CSV or Excel file
// 2. Loader: maps headers, keeps the most recent trading days, coerces types
// and drops rows that cannot be matched
// 3. Curve: fits a yield-on-term line for the latest trade date
//
// # Usage
//
//	loader := dataprocessing.NewLoader(classifier, dataprocessing.DefaultRecentTradingDays, logger)
//	ds, report, err := loader.LoadFile(ctx, "data/bonds.xlsx")
//	if err != nil {
//	    return err
//	}
//	curve := dataprocessing.BuildCurve(ds)
//
// Headers may be the Chinese column names used by the trading desk (债券代码,
// 剩余年限, 票面, 专项一般, 区域, 发行日期, 是否交税, 当前日期, ...) or their
// English snake_case equivalents. 是否免税 is accepted in place of 是否交税.
package dataprocessing
