package dataprocessing

import (
	"log/slog"
	"sort"
	"time"

	"sueldoreal/pkg/contracts/domain"
)

// Input column names. These are the exact headers the documented CSV format
// uses; anything else in the input is dropped by the merge.
const (
	ColMonth         = "fecha"
	ColNominalSalary = "sueldo_nominal_ars"
	ColFXRate        = "usd_ars"
	ColCPILocal      = "cpi_ar"
	ColCPIForeign    = "cpi_us"
)

// Merger aligns a raw salary table with a reference CPI index on the
// normalized month key.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger. A nil logger falls back to slog.Default.
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger.With(slog.String("component", "merger"))}
}

// Merge validates the raw table, normalizes months, retains only recognized
// columns and left-joins the reference index for cpi_us when the caller did
// not supply that column. A caller-supplied cpi_us value is never overwritten
// by the reference source.
//
// Rows whose month cannot be parsed are dropped. Duplicate months after
// normalization keep the last occurrence. The returned table is sorted
// ascending by month.
func (m *Merger) Merge(raw *RawTable, ref *domain.ReferenceIndex) (*domain.SeriesTable, domain.Capabilities, error) {
	var missing []string
	monthIdx := raw.ColumnIndex(ColMonth)
	salaryIdx := raw.ColumnIndex(ColNominalSalary)
	if monthIdx < 0 {
		missing = append(missing, ColMonth)
	}
	if salaryIdx < 0 {
		missing = append(missing, ColNominalSalary)
	}
	if len(missing) > 0 {
		return nil, domain.Capabilities{}, &SchemaError{Missing: missing}
	}

	fxIdx := raw.ColumnIndex(ColFXRate)
	cpiLocalIdx := raw.ColumnIndex(ColCPILocal)
	cpiForeignIdx := raw.ColumnIndex(ColCPIForeign)
	fillForeign := cpiForeignIdx < 0 && ref != nil

	byMonth := make(map[time.Time]domain.MonthlyRecord)
	dropped := 0
	for i := range raw.Rows {
		month, ok := NormalizeMonth(raw.Cell(i, monthIdx))
		if !ok {
			dropped++
			continue
		}
		rec := domain.MonthlyRecord{
			Month:         month,
			NominalSalary: ParseNumber(raw.Cell(i, salaryIdx)),
		}
		if fxIdx >= 0 {
			rec.FXRate = ParseNumber(raw.Cell(i, fxIdx))
		}
		if cpiLocalIdx >= 0 {
			rec.CPILocal = ParseNumber(raw.Cell(i, cpiLocalIdx))
		}
		if cpiForeignIdx >= 0 {
			rec.CPIForeign = ParseNumber(raw.Cell(i, cpiForeignIdx))
		} else if fillForeign {
			if v, found := ref.Lookup(month); found {
				rec.CPIForeign = domain.Float(v)
			}
		}
		byMonth[month] = rec
	}

	table := &domain.SeriesTable{Records: make([]domain.MonthlyRecord, 0, len(byMonth))}
	for _, rec := range byMonth {
		table.Records = append(table.Records, rec)
	}
	sort.Slice(table.Records, func(i, j int) bool {
		return table.Records[i].Month.Before(table.Records[j].Month)
	})

	caps := capabilitiesOf(table)

	m.logger.Debug("merged input table",
		slog.Int("rows", len(table.Records)),
		slog.Int("dropped_rows", dropped),
		slog.Bool("reference_join", fillForeign),
		slog.Bool("has_local_cpi", caps.HasLocalCPI),
		slog.Bool("has_foreign_inputs", caps.HasForeignInputs))

	return table, caps, nil
}

// capabilitiesOf derives the capability flags once from the merged table:
// a series counts as available when at least one month carries a value.
func capabilitiesOf(t *domain.SeriesTable) domain.Capabilities {
	var caps domain.Capabilities
	var anyFX, anyForeignCPI bool
	for _, rec := range t.Records {
		if rec.CPILocal != nil {
			caps.HasLocalCPI = true
		}
		if rec.FXRate != nil {
			anyFX = true
		}
		if rec.CPIForeign != nil {
			anyForeignCPI = true
		}
	}
	caps.HasForeignInputs = anyFX && anyForeignCPI
	return caps
}
