// Package exporter writes the derived salary series as CSV.
//
// Two components:
//
// CSVWriter: low-level CSV writing with optional headers and a UTF-8 BOM for
// Excel compatibility, targeting any io.Writer (HTTP response or file).
//
// SeriesExporter: renders DerivedRow slices into the downloadable artifact
// with columns fecha, sueldo_nominal_ars, ars_real, usd_nominal, usd_real.
// Missing values become empty cells; numbers are plain decimals.
package exporter
