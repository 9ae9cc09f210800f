package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"sueldoreal/internal/dataprocessing"
	"sueldoreal/internal/fetch"
	"sueldoreal/pkg/contracts/domain"
)

// Loader obtains remote inputs. Implemented by fetch.Client; tests substitute
// a fake.
type Loader interface {
	FetchReferenceIndex(ctx context.Context) (*domain.ReferenceIndex, error)
	FetchTable(ctx context.Context, url string) ([]byte, error)
}

// WindowParams are the optional user selections. A nil field means "use the
// detected default": the full range for From/To, the end of the window for
// Base.
type WindowParams struct {
	From *time.Time
	To   *time.Time
	Base *time.Time
}

// AnalysisResult is the full pipeline output for one request.
type AnalysisResult struct {
	Window       domain.AnalysisWindow `json:"window"`
	Range        *dataprocessing.Range `json:"range"`
	Capabilities domain.Capabilities   `json:"capabilities"`
	Rows         []domain.DerivedRow   `json:"rows"`
	Stats        []domain.SeriesStats  `json:"stats"`
	Warnings     []string              `json:"warnings,omitempty"`
}

// SalaryService runs the deflation pipeline end to end: load, merge, resolve,
// derive, summarize. It holds no per-request state; every call recomputes
// from its inputs.
type SalaryService struct {
	loader   Loader
	merger   *dataprocessing.Merger
	deflator *dataprocessing.Deflator
	logger   *slog.Logger
}

// NewSalaryService creates a salary service with injected dependencies.
func NewSalaryService(loader Loader, logger *slog.Logger) *SalaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalaryService{
		loader:   loader,
		merger:   dataprocessing.NewMerger(logger),
		deflator: dataprocessing.NewDeflator(logger),
		logger:   logger.With(slog.String("component", "salary_service")),
	}
}

// AnalyzeURL fetches a remote CSV table and analyzes it. The fetch may be
// served from the loader's time-bounded cache.
func (s *SalaryService) AnalyzeURL(ctx context.Context, url string, params WindowParams) (*AnalysisResult, error) {
	data, err := s.loader.FetchTable(ctx, url)
	if err != nil {
		return nil, err
	}
	raw, err := dataprocessing.ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.AnalyzeTable(ctx, raw, params)
}

// AnalyzeTable runs the pipeline over an already-parsed raw table.
//
// The reference CPI index is fetched only when the input lacks a cpi_us
// column; a failed fetch degrades the foreign series and is reported as a
// warning, not an error. SchemaError, EmptyRangeError, ErrNoData and
// ErrNoDerivableSeries propagate to the caller.
func (s *SalaryService) AnalyzeTable(ctx context.Context, raw *dataprocessing.RawTable, params WindowParams) (*AnalysisResult, error) {
	var warnings []string

	var ref *domain.ReferenceIndex
	if raw.ColumnIndex(dataprocessing.ColCPIForeign) < 0 {
		index, err := s.loader.FetchReferenceIndex(ctx)
		if err != nil {
			var fetchErr *fetch.FetchError
			if !errors.As(err, &fetchErr) {
				return nil, err
			}
			s.logger.WarnContext(ctx, "reference index unavailable",
				slog.String("error", err.Error()))
			warnings = append(warnings, "could not fetch the reference CPI index; without a cpi_us column the real USD series is unavailable")
		} else {
			ref = index
		}
	}

	table, caps, err := s.merger.Merge(raw, ref)
	if err != nil {
		return nil, err
	}

	rng, err := dataprocessing.ResolveRange(table, caps)
	if err != nil {
		return nil, err
	}

	window := resolveWindow(rng, params)
	rows, err := s.deflator.Derive(table, window)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Window:       window,
		Range:        rng,
		Capabilities: caps,
		Rows:         rows,
		Stats:        dataprocessing.Summarize(rows),
		Warnings:     warnings,
	}

	s.logger.InfoContext(ctx, "analysis completed",
		slog.Time("window_start", window.Start),
		slog.Time("window_end", window.End),
		slog.Time("base", window.Base),
		slog.Int("rows", len(rows)),
		slog.Int("series", len(result.Stats)))

	return result, nil
}

// resolveWindow applies the defaulting rules: full detected range, base at
// the end of the selected window.
func resolveWindow(rng *dataprocessing.Range, params WindowParams) domain.AnalysisWindow {
	window := domain.AnalysisWindow{
		Start: rng.First,
		End:   rng.LastCommon,
	}
	if params.From != nil {
		window.Start = dataprocessing.TruncateMonth(*params.From)
	}
	if params.To != nil {
		window.End = dataprocessing.TruncateMonth(*params.To)
	}
	window.Base = window.End
	if params.Base != nil {
		window.Base = dataprocessing.TruncateMonth(*params.Base)
	}
	return window
}
