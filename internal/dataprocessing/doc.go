// Package dataprocessing implements the numeric core of SueldoReal: it turns
// a raw salary table into inflation-adjusted series expressed in a base
// month's price level.
//
// # Architecture
//
// The package is organized as a linear pipeline of pure transforms:
//
// 1. Parser: reads an uploaded CSV or Excel workbook into a RawTable
// 2. Merger: validates the schema, normalizes months, fills cpi_us from a
// reference index when the caller did not supply one
// 3. Resolver: detects the first month and the last common month covered by
// every derivable series
// 4. Deflator: computes real local-currency and real foreign-currency values
// for a selected window and base month
// 5. Summarizer: per-series summary statistics over the window
//
// # Data Flow
//
//	CSV/XLSX → Parser → RawTable → Merger → SeriesTable → Resolver →
//	[window + base] → Deflator → DerivedRows → Summarizer
//
// # Error Handling
//
// Missing or unparseable values propagate as missing data (nil), never as
// pipeline aborts. Only a missing required column is fatal (SchemaError);
// empty windows and underivable series are reported as typed, recoverable
// errors by the deflator.
//
// Every transform is a pure function of its inputs. Nothing in this package
// holds state between calls, so the same table and window always produce the
// same output.
package dataprocessing
