package http

import (
	"context"

	"sueldoreal/internal/dataprocessing"
	"sueldoreal/internal/services"
)

// SeriesServiceInterface is what the series handler needs from the service
// layer. Kept minimal so tests can substitute a mock.
type SeriesServiceInterface interface {
	AnalyzeTable(ctx context.Context, raw *dataprocessing.RawTable, params services.WindowParams) (*services.AnalysisResult, error)
	AnalyzeURL(ctx context.Context, url string, params services.WindowParams) (*services.AnalysisResult, error)
}
