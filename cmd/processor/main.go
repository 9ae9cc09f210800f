package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sueldoreal/internal/config"
	"sueldoreal/internal/dataprocessing"
	"sueldoreal/internal/exporter"
	"sueldoreal/internal/fetch"
	"sueldoreal/internal/infrastructure"
	"sueldoreal/internal/services"
)

func main() {
	input := flag.String("input", "", "path to a local CSV or XLSX salary file")
	sourceURL := flag.String("url", "", "URL of a remote CSV salary file")
	output := flag.String("output", "series_generadas.csv", "path of the generated CSV")
	from := flag.String("from", "", "start month (YYYY-MM), defaults to first available")
	to := flag.String("to", "", "end month (YYYY-MM), defaults to last common month")
	base := flag.String("base", "", "base month (YYYY-MM), defaults to end of window")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall processing timeout")
	flag.Parse()

	if *input == "" && *sourceURL == "" {
		fmt.Fprintln(os.Stderr, "either -input or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := fetch.NewClient(fetch.Options{
		ReferenceURL: cfg.Fetch.ReferenceURL,
		Timeout:      cfg.Fetch.Timeout,
		ReferenceTTL: cfg.Fetch.ReferenceTTL,
		TableTTL:     cfg.Fetch.TableTTL,
		MaxBodySize:  cfg.Fetch.MaxUploadSize,
	}, fetch.NewCache(nil), logger)
	service := services.NewSalaryService(client, logger)

	params, err := windowParams(*from, *to, *base)
	if err != nil {
		logger.Error("invalid window", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := analyze(ctx, service, *input, *sourceURL, params)
	if err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	if err := writeCSV(*output, result); err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("series generated",
		slog.String("output", *output),
		slog.Int("rows", len(result.Rows)),
		slog.String("window_start", result.Window.Start.Format("2006-01")),
		slog.String("window_end", result.Window.End.Format("2006-01")),
		slog.String("base", result.Window.Base.Format("2006-01")))

	for _, st := range result.Stats {
		logger.Info("series stats",
			slog.String("series", st.Series),
			slog.Float64("mean", st.Mean),
			slog.Float64("max", st.Max),
			slog.Float64("min", st.Min),
			slog.Float64("last", st.Last))
	}
}

// analyze runs the pipeline over a local file or a remote URL.
func analyze(ctx context.Context, service *services.SalaryService, input, sourceURL string, params services.WindowParams) (*services.AnalysisResult, error) {
	if input == "" {
		return service.AnalyzeURL(ctx, sourceURL, params)
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var raw *dataprocessing.RawTable
	if strings.EqualFold(filepath.Ext(input), ".xlsx") {
		raw, err = dataprocessing.ParseWorkbook(f)
	} else {
		raw, err = dataprocessing.ParseCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	return service.AnalyzeTable(ctx, raw, params)
}

// windowParams converts flag values into optional window bounds.
func windowParams(from, to, base string) (services.WindowParams, error) {
	var params services.WindowParams

	for _, f := range []struct {
		value string
		dest  **time.Time
		name  string
	}{
		{from, &params.From, "from"},
		{to, &params.To, "to"},
		{base, &params.Base, "base"},
	} {
		if f.value == "" {
			continue
		}
		month, ok := dataprocessing.NormalizeMonth(f.value)
		if !ok {
			return params, fmt.Errorf("invalid -%s value %q", f.name, f.value)
		}
		*f.dest = &month
	}

	return params, nil
}

func writeCSV(path string, result *services.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := exporter.NewSeriesExporter().ExportSeries(f, result.Rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
