package dataprocessing

import (
	"sueldoreal/pkg/contracts/domain"
)

// Summary labels, matching the exported CSV column names so the UI and the
// download artifact agree on naming.
const (
	StatRealLocal      = "ars_real"
	StatNominalForeign = "usd_nominal"
	StatRealForeign    = "usd_real"
)

// Summarize computes mean/max/min/last per derived series over the window.
// Series with no values are omitted entirely rather than reported as zeros.
func Summarize(rows []domain.DerivedRow) []domain.SeriesStats {
	var out []domain.SeriesStats
	for _, s := range []struct {
		name  string
		field func(domain.DerivedRow) *float64
	}{
		{StatRealLocal, func(r domain.DerivedRow) *float64 { return r.RealLocal }},
		{StatNominalForeign, func(r domain.DerivedRow) *float64 { return r.NominalForeign }},
		{StatRealForeign, func(r domain.DerivedRow) *float64 { return r.RealForeign }},
	} {
		if stats, ok := summarizeField(rows, s.name, s.field); ok {
			out = append(out, stats)
		}
	}
	return out
}

func summarizeField(rows []domain.DerivedRow, name string, field func(domain.DerivedRow) *float64) (domain.SeriesStats, bool) {
	stats := domain.SeriesStats{Series: name}
	sum := 0.0
	n := 0
	for _, row := range rows {
		v := field(row)
		if v == nil {
			continue
		}
		if n == 0 {
			stats.Max, stats.Min = *v, *v
		}
		if *v > stats.Max {
			stats.Max = *v
		}
		if *v < stats.Min {
			stats.Min = *v
		}
		stats.Last = *v
		sum += *v
		n++
	}
	if n == 0 {
		return domain.SeriesStats{}, false
	}
	stats.Mean = sum / float64(n)
	return stats, true
}
