package exporter

import (
	"io"

	"sueldoreal/pkg/contracts/domain"
)

// Column order of the downloadable artifact.
var seriesHeaders = []string{"fecha", "sueldo_nominal_ars", "ars_real", "usd_nominal", "usd_real"}

// SeriesExporter renders derived rows into the downloadable CSV.
type SeriesExporter struct {
	csvWriter *CSVWriter
}

// NewSeriesExporter creates a new derived-series exporter
func NewSeriesExporter() *SeriesExporter {
	return &SeriesExporter{csvWriter: NewCSVWriter()}
}

// ExportSeries writes one row per month of the selected window to w.
func (e *SeriesExporter) ExportSeries(w io.Writer, rows []domain.DerivedRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, e.rowToCSV(row))
	}
	return e.csvWriter.WriteCSV(w, WriteOptions{
		Headers:   seriesHeaders,
		Records:   records,
		BOMPrefix: true,
	})
}

func (e *SeriesExporter) rowToCSV(row domain.DerivedRow) []string {
	return []string{
		row.Month.Format("2006-01"),
		formatOptional(row.NominalSalary),
		formatOptional(row.RealLocal),
		formatOptional(row.NominalForeign),
		formatOptional(row.RealForeign),
	}
}
