package domain

import (
	"time"
)

// MonthlyRecord is one month of input data after merging. Optional columns
// are pointers; nil means the value is missing for that month.
type MonthlyRecord struct {
	Month         time.Time `json:"month"`
	NominalSalary *float64  `json:"nominal_salary"`
	FXRate        *float64  `json:"fx_rate,omitempty"`
	CPILocal      *float64  `json:"cpi_local,omitempty"`
	CPIForeign    *float64  `json:"cpi_foreign,omitempty"`
}

// SeriesTable is an ordered sequence of monthly records, sorted ascending by
// month. Months are unique after normalization.
type SeriesTable struct {
	Records []MonthlyRecord `json:"records"`
}

// IsEmpty reports whether the table has no rows.
func (t *SeriesTable) IsEmpty() bool {
	return t == nil || len(t.Records) == 0
}

// MinMonth returns the earliest month in the table.
// The boolean is false for an empty table.
func (t *SeriesTable) MinMonth() (time.Time, bool) {
	if t.IsEmpty() {
		return time.Time{}, false
	}
	return t.Records[0].Month, true
}

// MaxMonth returns the latest month in the table.
// The boolean is false for an empty table.
func (t *SeriesTable) MaxMonth() (time.Time, bool) {
	if t.IsEmpty() {
		return time.Time{}, false
	}
	return t.Records[len(t.Records)-1].Month, true
}

// Filter returns a new table containing the rows with from <= month <= to.
// The receiver is not modified.
func (t *SeriesTable) Filter(from, to time.Time) *SeriesTable {
	out := &SeriesTable{}
	for _, rec := range t.Records {
		if rec.Month.Before(from) || rec.Month.After(to) {
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out
}

// ReferencePoint is one month of an external reference price index.
type ReferencePoint struct {
	Month      time.Time `json:"month"`
	CPIForeign float64   `json:"cpi_foreign"`
}

// ReferenceIndex is a read-only {month, cpi_foreign} series from an external
// authoritative source, used only to fill missing cpi_foreign values.
type ReferenceIndex struct {
	Points []ReferencePoint `json:"points"`
}

// Lookup returns the index level for an exact month match.
func (r *ReferenceIndex) Lookup(month time.Time) (float64, bool) {
	if r == nil {
		return 0, false
	}
	for _, p := range r.Points {
		if p.Month.Equal(month) {
			return p.CPIForeign, true
		}
	}
	return 0, false
}

// Capabilities records which derived series the merged table can support.
// Computed once after merge instead of re-checking column presence at every
// step of the pipeline.
type Capabilities struct {
	HasLocalCPI      bool `json:"has_local_cpi"`
	HasForeignInputs bool `json:"has_foreign_inputs"`
}

// AnalysisWindow is the user-selected (or defaulted) slice of the series and
// the base month whose price level real values are expressed in.
type AnalysisWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Base  time.Time `json:"base"`
}

// DerivedRow holds the per-month output values. Each value is independent
// and nil when its inputs are missing or unusable for that month.
type DerivedRow struct {
	Month          time.Time `json:"month"`
	NominalSalary  *float64  `json:"nominal_salary"`
	RealLocal      *float64  `json:"real_local,omitempty"`
	NominalForeign *float64  `json:"nominal_foreign,omitempty"`
	RealForeign    *float64  `json:"real_foreign,omitempty"`
}

// SeriesStats summarizes one derived series over the selected window.
type SeriesStats struct {
	Series string  `json:"series"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Last   float64 `json:"last"`
}

// Float returns a pointer to v. Convenience for building sparse records.
func Float(v float64) *float64 {
	return &v
}
