package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"csvlens/adapters/csvreader"
	"csvlens/adapters/excel"
	"csvlens/adapters/svgplot"
	"csvlens/domain/chart"
	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/internal"
	"csvlens/internal/imputation"
	"csvlens/internal/profiling"
	"csvlens/internal/report"
	"csvlens/internal/visualization"
	"csvlens/ports"
)

// DefaultPreviewRows is how many rows the raw and imputed previews show
const DefaultPreviewRows = 5

// ProfileRequest is one rerun of the dashboard: the upload plus the current
// selections. Kinds holds wire labels and is parsed by the service.
// SessionID, when set, routes stage events to that browser session.
type ProfileRequest struct {
	Upload    dataset.Upload
	Columns   []string
	Kinds     []string
	SessionID string
}

// Preview is the first rows of a table rendered as text
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ProfileResult is everything the dashboard renders for one upload
type ProfileResult struct {
	RunID          core.RunID          `json:"run_id"`
	Filename       string              `json:"filename"`
	Fingerprint    core.Hash           `json:"fingerprint"`
	CreatedAt      core.Timestamp      `json:"created_at"`
	DurationMs     int64               `json:"duration_ms"`
	Stages         []StageTiming       `json:"stages"`
	Rows           int                 `json:"rows"`
	Fields         []dataset.FieldInfo `json:"fields"`
	NumericColumns []string            `json:"numeric_columns"`
	RawPreview     Preview             `json:"raw_preview"`
	ImputedPreview Preview             `json:"imputed_preview"`
	Imputation     *imputation.Result  `json:"imputation"`
	Summary        profiling.Summary   `json:"summary"`
	Heatmap        chart.Chart         `json:"heatmap"`
	Selection      chart.Request       `json:"selection"`
	Charts         []chart.Chart       `json:"charts"`

	raw *dataset.Table
}

// Raw returns the table as uploaded
func (r *ProfileResult) Raw() *dataset.Table { return r.raw }

// Imputed returns the numeric table after imputation
func (r *ProfileResult) Imputed() *dataset.Table { return r.Imputation.Table }

// ProfileService runs Loader, Imputer, Summarizer and Visualizer from
// scratch on every request. It holds no per-upload state.
type ProfileService struct {
	loader      ports.TableLoader
	workbooks   ports.RecordReader
	imputer     ports.Imputer
	summarizer  ports.Summarizer
	charts      ports.ChartBuilder
	renderer    ports.ChartRenderer
	exporter    *excel.Exporter
	events      ports.EventPublisher
	logger      *internal.Logger
	previewRows int
}

// Option configures a ProfileService
type Option func(*ProfileService)

// WithPreviewRows sets the preview length
func WithPreviewRows(n int) Option {
	return func(s *ProfileService) {
		if n > 0 {
			s.previewRows = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *internal.Logger) Option {
	return func(s *ProfileService) { s.logger = l }
}

// WithImputer replaces the k-NN imputer
func WithImputer(imp ports.Imputer) Option {
	return func(s *ProfileService) { s.imputer = imp }
}

// WithEvents publishes stage progress for requests that carry a session
func WithEvents(p ports.EventPublisher) Option {
	return func(s *ProfileService) { s.events = p }
}

// NewProfileService wires the default pipeline
func NewProfileService(opts ...Option) *ProfileService {
	s := &ProfileService{
		loader:      csvreader.NewLoader(),
		workbooks:   excel.NewWorkbookReader(),
		summarizer:  profiling.NewDataProfiler(),
		renderer:    svgplot.NewRenderer(),
		exporter:    excel.NewExporter(excel.DefaultExportConfig()),
		logger:      internal.DefaultLogger,
		previewRows: DefaultPreviewRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.imputer == nil {
		s.imputer = imputation.NewKNNImputer(imputation.DefaultNeighbors, imputation.WithLogger(s.logger))
	}
	s.charts = visualization.NewBuilder(s.logger)
	s.logger = s.logger.With("ProfileService")
	return s
}

// Run profiles one upload. Charts are built only when both columns and
// kinds are selected; any failure aborts the run with no partial result.
func (s *ProfileService) Run(ctx context.Context, req ProfileRequest) (*ProfileResult, error) {
	kinds, err := chart.ParseKinds(req.Kinds)
	if err != nil {
		return nil, err
	}

	res, runner, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	res.Selection = chart.Request{Columns: req.Columns, Kinds: kinds}
	if !res.Selection.Empty() {
		err = runner.Run(ctx, StageVisualize, func() error {
			charts, err := s.charts.Build(res.Imputed(), res.Selection)
			res.Charts = charts
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	res.Stages = runner.Timings()
	res.DurationMs = time.Since(res.CreatedAt.Time()).Milliseconds()
	s.logger.Info("run %s: %s (%s) profiled (%d rows, %d columns, %d filled, %d charts) in %dms",
		res.RunID.Short(), res.Filename, res.Fingerprint.Short(), res.Rows, len(res.Fields), res.Imputation.FilledCells, len(res.Charts), res.DurationMs)
	return res, nil
}

// Chart builds a single figure. The label may also name the correlation heatmap.
func (s *ProfileService) Chart(ctx context.Context, req ProfileRequest, kind string) (*chart.Chart, error) {
	heatmap := strings.EqualFold(strings.TrimSpace(kind), chart.HeatmapLabel)
	var k chart.Kind
	if !heatmap {
		var err error
		if k, err = chart.ParseKind(kind); err != nil {
			return nil, err
		}
	}

	res, runner, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if heatmap {
		return &res.Heatmap, nil
	}

	var c *chart.Chart
	err = runner.Run(ctx, StageVisualize, func() error {
		c, err = s.charts.BuildOne(res.Imputed(), req.Columns, k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RenderSVG writes one figure as an SVG document
func (s *ProfileService) RenderSVG(ctx context.Context, req ProfileRequest, kind string, w io.Writer) error {
	c, err := s.Chart(ctx, req, kind)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, c)
}

// ExportWorkbook writes the raw table, the imputed table and every summary as XLSX
func (s *ProfileService) ExportWorkbook(ctx context.Context, req ProfileRequest, w io.Writer) error {
	res, _, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}
	return s.exporter.Write(w, excel.Workbook{
		Filename:   res.Filename,
		Raw:        res.raw,
		Imputation: res.Imputation,
		Summary:    res.Summary,
	})
}

// Report renders the profile as a Markdown document
func (s *ProfileService) Report(ctx context.Context, req ProfileRequest) (string, error) {
	res, _, err := s.prepare(ctx, req)
	if err != nil {
		return "", err
	}
	return report.Markdown(s.ReportInput(res)), nil
}

// ReportInput adapts a result for the report renderer
func (s *ProfileService) ReportInput(res *ProfileResult) report.Input {
	return report.Input{
		RunID:       res.RunID.String(),
		Filename:    res.Filename,
		GeneratedAt: res.CreatedAt,
		Raw:         res.raw,
		Imputation:  res.Imputation,
		Summary:     res.Summary,
		PreviewRows: s.previewRows,
		Neighbors:   imputation.DefaultNeighbors,
	}
}

// prepare runs every stage except chart building
func (s *ProfileService) prepare(ctx context.Context, req ProfileRequest) (*ProfileResult, *StageRunner, error) {
	if req.Upload.Content == nil {
		return nil, nil, core.NewParseError(0, "no file uploaded")
	}
	res := &ProfileResult{
		RunID:     core.NewRunID(),
		Filename:  req.Upload.Filename,
		CreatedAt: core.Now(),
	}
	runner := NewStageRunner(s.logger).WithEvents(s.events, req.SessionID, res.RunID.String())

	err := runner.Run(ctx, StageLoad, func() error {
		data, err := io.ReadAll(req.Upload.Content)
		if err != nil {
			return core.NewParseError(0, fmt.Sprintf("unreadable upload: %v", err))
		}
		res.Fingerprint = core.NewHash(data)
		res.raw, err = s.load(ctx, req.Upload, data)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	err = runner.Run(ctx, StageImpute, func() error {
		res.Imputation, err = s.imputer.Impute(ctx, res.raw)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	err = runner.Run(ctx, StageSummarize, func() error {
		res.Summary = s.summarizer.Summarize(res.raw, res.Imputed())
		res.Heatmap = s.charts.Heatmap(res.Summary.Correlation)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	res.Rows = res.raw.NumRows()
	res.Fields = res.raw.Fields()
	res.NumericColumns = res.Imputed().Names()
	res.RawPreview = preview(res.raw, s.previewRows)
	res.ImputedPreview = preview(res.Imputed(), s.previewRows)
	return res, runner, nil
}

// load picks the workbook reader for spreadsheet uploads and the CSV loader otherwise
func (s *ProfileService) load(ctx context.Context, upload dataset.Upload, data []byte) (*dataset.Table, error) {
	if !isWorkbook(upload) {
		return s.loader.Load(ctx, bytes.NewReader(data))
	}
	records, err := s.workbooks.ReadRecords(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.loader.FromRecords(records)
}

func isWorkbook(u dataset.Upload) bool {
	return strings.EqualFold(filepath.Ext(u.Filename), ".xlsx") ||
		u.MimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func preview(t *dataset.Table, n int) Preview {
	return Preview{Columns: t.Names(), Rows: t.Head(n)}
}
