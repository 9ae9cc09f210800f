package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoData indicates an empty series table: there is nothing to resolve a
// default window against. Callers surface a message and halt gracefully.
var ErrNoData = errors.New("series table has no rows")

// ErrNoDerivableSeries indicates that neither required-field combination is
// satisfiable anywhere in the selected window: nothing can be plotted or
// exported. Recoverable by supplying more columns or picking another window.
var ErrNoDerivableSeries = errors.New("no derivable series: cpi_ar is required for real ARS, usd_ars and cpi_us for real USD")

// SchemaError is fatal: the input table is missing required columns, so the
// pipeline halts entirely.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input table is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// EmptyRangeError indicates a selected window with zero matching rows.
// Recoverable by re-selecting the range.
type EmptyRangeError struct {
	From, To time.Time
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("no data between %s and %s", e.From.Format("2006-01"), e.To.Format("2006-01"))
}
