package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"sueldoreal/internal/dataprocessing"
	apierrors "sueldoreal/internal/errors"
	"sueldoreal/internal/exporter"
	"sueldoreal/internal/services"
)

// ExportFilename is the name suggested for the downloadable artifact.
const ExportFilename = "series_generadas.csv"

// AnalyzeRequest carries the data source and the optional window selection.
// Exactly one of URL or an uploaded file must be provided; month fields
// accept any parseable month string.
type AnalyzeRequest struct {
	URL  string `json:"url" validate:"omitempty,url"`
	From string `json:"from" validate:"omitempty,yearmonth"`
	To   string `json:"to" validate:"omitempty,yearmonth"`
	Base string `json:"base" validate:"omitempty,yearmonth"`
}

// SeriesHandler handles analyze and export requests.
type SeriesHandler struct {
	service       SeriesServiceInterface
	exporter      *exporter.SeriesExporter
	validate      *validator.Validate
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
	maxUploadSize int64
}

// NewSeriesHandler creates a series handler.
func NewSeriesHandler(service SeriesServiceInterface, errorHandler *apierrors.ErrorHandler, maxUploadSize int64, logger *slog.Logger) *SeriesHandler {
	v := validator.New()
	v.RegisterValidation("yearmonth", isYearMonth)
	return &SeriesHandler{
		service:       service,
		exporter:      exporter.NewSeriesExporter(),
		validate:      v,
		logger:        logger.With(slog.String("handler", "series")),
		errorHandler:  errorHandler,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the series routes.
func (h *SeriesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/analyze", h.Analyze)
	r.Post("/export", h.Export)
	return r
}

// Analyze handles POST /api/series/analyze.
func (h *SeriesHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// Export handles POST /api/series/export: same inputs as Analyze, responds
// with the downloadable CSV for the selected window.
func (h *SeriesHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	if err := h.exporter.ExportSeries(w, result.Rows); err != nil {
		// Headers are already on the wire; all we can do is log.
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// run parses the request, executes the pipeline and writes the error
// response on failure. The boolean reports whether processing succeeded.
func (h *SeriesHandler) run(w http.ResponseWriter, r *http.Request) (*services.AnalysisResult, bool) {
	req, raw, err := h.parseRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	params, err := h.windowParams(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	var result *services.AnalysisResult
	if raw != nil {
		result, err = h.service.AnalyzeTable(r.Context(), raw, params)
	} else {
		result, err = h.service.AnalyzeURL(r.Context(), req.URL, params)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return result, true
}

// parseRequest accepts either a multipart upload (field "file" plus optional
// form fields) or a JSON body with a url. It returns the parsed table for
// uploads, nil for URL requests.
func (h *SeriesHandler) parseRequest(r *http.Request) (*AnalyzeRequest, *dataprocessing.RawTable, error) {
	req := &AnalyzeRequest{}
	var raw *dataprocessing.RawTable

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return nil, nil, apierrors.ErrPayloadTooLarge
		}
		req.URL = r.FormValue("url")
		req.From = r.FormValue("from")
		req.To = r.FormValue("to")
		req.Base = r.FormValue("base")

		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
				raw, err = dataprocessing.ParseWorkbook(file)
			} else {
				raw, err = dataprocessing.ParseCSV(file)
			}
			if err != nil {
				return nil, nil, apierrors.InvalidRequestWithError(err)
			}
		}
	default:
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, h.maxUploadSize)).Decode(req); err != nil {
			return nil, nil, apierrors.InvalidRequestWithError(err)
		}
	}

	if raw == nil && req.URL == "" {
		return nil, nil, apierrors.ErrMissingSource
	}

	if err := h.validate.Struct(req); err != nil {
		var details []apierrors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				details = append(details, apierrors.ValidationError{
					Field:   strings.ToLower(verr.Field()),
					Message: validationMessage(verr),
				})
			}
		}
		return nil, nil, apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", details)
	}

	return req, raw, nil
}

// windowParams converts the request's month strings into typed selections.
func (h *SeriesHandler) windowParams(req *AnalyzeRequest) (services.WindowParams, error) {
	var params services.WindowParams
	for _, field := range []struct {
		name  string
		value string
		dst   **time.Time
	}{
		{"from", req.From, &params.From},
		{"to", req.To, &params.To},
		{"base", req.Base, &params.Base},
	} {
		if field.value == "" {
			continue
		}
		month, ok := dataprocessing.NormalizeMonth(field.value)
		if !ok {
			return params, apierrors.ErrValidation(field.name, "not a parseable month")
		}
		m := month
		*field.dst = &m
	}
	return params, nil
}

// isYearMonth validates a month field using the same layouts the pipeline
// accepts, so validation never rejects what the pipeline would parse.
func isYearMonth(fl validator.FieldLevel) bool {
	_, ok := dataprocessing.NormalizeMonth(fl.Field().String())
	return ok
}

func validationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "url":
		return "must be a valid URL"
	case "yearmonth":
		return "must be a parseable month, e.g. 2023-01"
	default:
		return "invalid value"
	}
}
