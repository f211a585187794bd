// Package services holds the business layer between the HTTP handlers or
// CLI commands and the matching engine.
//
// BondService owns the loaded dataset. Loads build a new immutable
// dataset and swap it in under a write lock, so searches running
// concurrently always see a complete snapshot. HealthService reports
// liveness, readiness (a dataset is loaded) and build information.
//
// Errors are returned as sentinels from errors.go, wrapped with context;
// handlers map them onto RFC 7807 problems.
package services
