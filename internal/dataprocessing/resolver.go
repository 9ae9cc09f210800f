package dataprocessing

import (
	"time"

	"sueldoreal/pkg/contracts/domain"
)

// Range describes the detected coverage of a merged table: the earliest
// month present and, per derivable series, the latest month for which every
// required field is simultaneously available (the watermark).
type Range struct {
	First time.Time `json:"first"`
	// LastCommon is the minimum across computed watermarks, so a default
	// window ending there never overstates the coverage of any single
	// derivable series. When no series is derivable it falls back to the
	// latest month present at all.
	LastCommon time.Time            `json:"last_common"`
	Watermarks map[string]time.Time `json:"watermarks,omitempty"`
}

// Watermark series names.
const (
	SeriesRealLocal   = "ars_real"
	SeriesRealForeign = "usd_real"
)

// ResolveRange computes the detected coverage of a table. Only the watermark
// month itself must have all required fields present; gaps before it do not
// move the watermark. An empty table yields ErrNoData.
func ResolveRange(table *domain.SeriesTable, caps domain.Capabilities) (*Range, error) {
	if table.IsEmpty() {
		return nil, ErrNoData
	}

	watermarks := make(map[string]time.Time)
	if caps.HasLocalCPI {
		if wm, ok := latestWhere(table, func(r domain.MonthlyRecord) bool {
			return r.NominalSalary != nil && r.CPILocal != nil
		}); ok {
			watermarks[SeriesRealLocal] = wm
		}
	}
	if caps.HasForeignInputs {
		if wm, ok := latestWhere(table, func(r domain.MonthlyRecord) bool {
			return r.NominalSalary != nil && r.FXRate != nil && r.CPIForeign != nil
		}); ok {
			watermarks[SeriesRealForeign] = wm
		}
	}

	first, _ := table.MinMonth()
	lastCommon, _ := table.MaxMonth()
	seen := false
	for _, wm := range watermarks {
		if !seen || wm.Before(lastCommon) {
			lastCommon = wm
			seen = true
		}
	}

	return &Range{First: first, LastCommon: lastCommon, Watermarks: watermarks}, nil
}

// latestWhere returns the latest month whose record satisfies pred.
func latestWhere(t *domain.SeriesTable, pred func(domain.MonthlyRecord) bool) (time.Time, bool) {
	for i := len(t.Records) - 1; i >= 0; i-- {
		if pred(t.Records[i]) {
			return t.Records[i].Month, true
		}
	}
	return time.Time{}, false
}
