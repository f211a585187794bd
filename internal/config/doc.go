// Package config loads the bondmatch configuration.
//
// Values are layered in this order, later sources winning:
//
//  1. Default()
//  2. a YAML file (--config, or config.yaml / configs/config.yaml)
//  3. BONDMATCH_* environment variables
//
// Nested sections map onto underscore-joined variable names:
//
//	BONDMATCH_SERVER_PORT=9090
//	BONDMATCH_DATASET_RECENT_TRADING_DAYS=10
//	BONDMATCH_MATCHING_HIGH_TIER_REGIONS=广东,浙江,北京
//	BONDMATCH_TELEMETRY_TRACE_EXPORTER=stdout
//
// Load validates the result. ResolvePaths turns the paths section into
// absolute directories.
package config
