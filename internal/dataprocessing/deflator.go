package dataprocessing

import (
	"log/slog"
	"time"

	"sueldoreal/pkg/contracts/domain"
)

// Deflate converts a nominal value at some month into the price level of the
// base month: nominal × (indexAtBase / indexAtT). Callers must guard a zero
// or missing indexAtT; see derive.
func Deflate(nominal, indexAtT, indexAtBase float64) float64 {
	return nominal * (indexAtBase / indexAtT)
}

// Deflator computes the derived series for a selected window and base month.
// It is stateless: every call is a pure function of (table, window).
type Deflator struct {
	logger *slog.Logger
}

// NewDeflator creates a deflator. A nil logger falls back to slog.Default.
func NewDeflator(logger *slog.Logger) *Deflator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deflator{logger: logger.With(slog.String("component", "deflator"))}
}

// Derive filters the table to the window, resolves the base index levels and
// computes one DerivedRow per remaining month.
//
// The base level per CPI series is the last known value at or before the
// base month, looked up among the window's rows (carry-backward). When no
// such row exists the corresponding series is silently omitted. A row whose
// index level at t is zero or missing gets a nil value for that series, not
// an error.
//
// Returns EmptyRangeError when no rows fall inside the window and
// ErrNoDerivableSeries when neither real series produced a single value.
func (d *Deflator) Derive(table *domain.SeriesTable, window domain.AnalysisWindow) ([]domain.DerivedRow, error) {
	filtered := table.Filter(window.Start, window.End)
	if filtered.IsEmpty() {
		return nil, &EmptyRangeError{From: window.Start, To: window.End}
	}

	base := TruncateMonth(window.Base)
	cpiLocalBase, hasLocalBase := baseLevel(filtered, base, func(r domain.MonthlyRecord) *float64 { return r.CPILocal })
	cpiForeignBase, hasForeignBase := baseLevel(filtered, base, func(r domain.MonthlyRecord) *float64 { return r.CPIForeign })

	rows := make([]domain.DerivedRow, 0, len(filtered.Records))
	anyLocal, anyForeign := false, false
	for _, rec := range filtered.Records {
		row := domain.DerivedRow{Month: rec.Month, NominalSalary: rec.NominalSalary}
		if rec.NominalSalary != nil {
			nominal := *rec.NominalSalary
			if hasLocalBase && valid(rec.CPILocal) {
				row.RealLocal = domain.Float(Deflate(nominal, *rec.CPILocal, cpiLocalBase))
				anyLocal = true
			}
			if valid(rec.FXRate) {
				row.NominalForeign = domain.Float(nominal / *rec.FXRate)
				if hasForeignBase && valid(rec.CPIForeign) {
					row.RealForeign = domain.Float(Deflate(*row.NominalForeign, *rec.CPIForeign, cpiForeignBase))
					anyForeign = true
				}
			}
		}
		rows = append(rows, row)
	}

	if !anyLocal && !anyForeign {
		return nil, ErrNoDerivableSeries
	}

	d.logger.Debug("derived series computed",
		slog.Int("rows", len(rows)),
		slog.Time("base", base),
		slog.Bool("real_local", anyLocal),
		slog.Bool("real_foreign", anyForeign))

	return rows, nil
}

// baseLevel resolves the index level for the base month by carry-backward
// lookup: the chronologically latest row with month <= base whose field is
// present. No forward-fill beyond the base.
func baseLevel(t *domain.SeriesTable, base time.Time, field func(domain.MonthlyRecord) *float64) (float64, bool) {
	for i := len(t.Records) - 1; i >= 0; i-- {
		rec := t.Records[i]
		if rec.Month.After(base) {
			continue
		}
		if v := field(rec); v != nil {
			return *v, true
		}
	}
	return 0, false
}

// valid reports a usable index or rate: present and non-zero. Zero divides
// are degraded to missing values rather than Inf results.
func valid(v *float64) bool {
	return v != nil && *v != 0
}
