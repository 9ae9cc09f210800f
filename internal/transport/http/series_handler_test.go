package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sueldoreal/internal/dataprocessing"
	apierrors "sueldoreal/internal/errors"
	"sueldoreal/internal/fetch"
	"sueldoreal/internal/services"
	"sueldoreal/pkg/contracts/domain"
)

// mockSeriesService implements SeriesServiceInterface.
type mockSeriesService struct {
	result *services.AnalysisResult
	err    error

	gotRaw    *dataprocessing.RawTable
	gotURL    string
	gotParams services.WindowParams
}

func (m *mockSeriesService) AnalyzeTable(ctx context.Context, raw *dataprocessing.RawTable, params services.WindowParams) (*services.AnalysisResult, error) {
	m.gotRaw = raw
	m.gotParams = params
	return m.result, m.err
}

func (m *mockSeriesService) AnalyzeURL(ctx context.Context, url string, params services.WindowParams) (*services.AnalysisResult, error) {
	m.gotURL = url
	m.gotParams = params
	return m.result, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(service SeriesServiceInterface) *SeriesHandler {
	logger := testLogger()
	return NewSeriesHandler(service, apierrors.NewErrorHandler(logger, false), 1<<20, logger)
}

func sampleResult() *services.AnalysisResult {
	f := domain.Float
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	return &services.AnalysisResult{
		Window: domain.AnalysisWindow{Start: jan, End: feb, Base: feb},
		Rows: []domain.DerivedRow{
			{Month: jan, NominalSalary: f(1000), RealLocal: f(1100)},
			{Month: feb, NominalSalary: f(1100), RealLocal: f(1100)},
		},
		Stats: []domain.SeriesStats{{Series: "ars_real", Mean: 1100, Max: 1100, Min: 1100, Last: 1100}},
	}
}

func TestAnalyzeJSONURL(t *testing.T) {
	service := &mockSeriesService{result: sampleResult()}
	handler := newTestHandler(service)

	body := `{"url":"http://example.com/sueldos.csv","from":"2023-01","to":"2023-02"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com/sueldos.csv", service.gotURL)
	require.NotNil(t, service.gotParams.From)
	assert.True(t, service.gotParams.From.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, service.gotParams.Base)

	var envelope struct {
		Status string                  `json:"status"`
		Data   services.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Len(t, envelope.Data.Rows, 2)
}

func TestAnalyzeMultipartUpload(t *testing.T) {
	service := &mockSeriesService{result: sampleResult()}
	handler := newTestHandler(service)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "sueldos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("fecha,sueldo_nominal_ars\n2023-01,1000\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("base", "2023-01"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, service.gotRaw)
	assert.Equal(t, []string{"fecha", "sueldo_nominal_ars"}, service.gotRaw.Headers)
	require.NotNil(t, service.gotParams.Base)
	assert.True(t, service.gotParams.Base.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAnalyzeMissingSource(t *testing.T) {
	handler := newTestHandler(&mockSeriesService{result: sampleResult()})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "MISSING_SOURCE", problem["error_code"])
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed url", body: `{"url":"not a url"}`},
		{name: "bad month", body: `{"url":"http://example.com/x.csv","from":"not-a-month"}`},
		{name: "invalid json", body: `{"url":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&mockSeriesService{result: sampleResult()})
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "schema error",
			err:        &dataprocessing.SchemaError{Missing: []string{"fecha"}},
			wantStatus: http.StatusBadRequest,
			wantType:   "/errors/input/schema",
		},
		{
			name:       "empty range",
			err:        &dataprocessing.EmptyRangeError{},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "/errors/window/empty-range",
		},
		{
			name:       "no derivable series",
			err:        dataprocessing.ErrNoDerivableSeries,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "/errors/window/no-derivable-series",
		},
		{
			name:       "no data",
			err:        dataprocessing.ErrNoData,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "/errors/input/no-data",
		},
		{
			name:       "upstream fetch",
			err:        &fetch.FetchError{Source: "remote table", Err: errors.New("boom")},
			wantStatus: http.StatusBadGateway,
			wantType:   "/errors/fetch/upstream",
		},
		{
			name:       "unknown error",
			err:        errors.New("surprise"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "/errors/internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(&mockSeriesService{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"url":"http://example.com/x.csv"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Routes().ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantType, problem["type"])
		})
	}
}

func TestExportCSV(t *testing.T) {
	handler := newTestHandler(&mockSeriesService{result: sampleResult()})

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"url":"http://example.com/x.csv"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ExportFilename)

	body := strings.TrimPrefix(rec.Body.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "fecha,sueldo_nominal_ars,ars_real,usd_nominal,usd_real", strings.TrimSpace(lines[0]))
	assert.Equal(t, "2023-01,1000,1100,,", strings.TrimSpace(lines[1]))
}
