// Package shared holds helpers used by more than one layer. Its testutil
// subpackage provides a capturing slog handler and bond dataset fixtures
// for package tests; it must not import any other internal package.
package shared
