package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"csvlens/domain/chart"
	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/internal/imputation"
	"csvlens/internal/testkit"
	"csvlens/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func request(csv string, columns []string, kinds ...string) ProfileRequest {
	return ProfileRequest{
		Upload:  dataset.Upload{Filename: "data.csv", Content: strings.NewReader(csv)},
		Columns: columns,
		Kinds:   kinds,
	}
}

func TestRunScenario(t *testing.T) {
	svc := NewProfileService()
	res, err := svc.Run(context.Background(), request(testkit.ScenarioCSV, []string{"a", "b"}, "BarChart"))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.Fingerprint.IsEmpty())
	assert.Equal(t, 6, res.Rows)
	assert.Equal(t, []string{"a", "b"}, res.NumericColumns)
	assert.Equal(t, 0, res.Imputed().MissingCount())

	b, _ := res.Imputed().Column("b")
	assert.Greater(t, b.Numbers[0], 4.0)
	assert.Less(t, b.Numbers[0], 12.0)

	require.Len(t, res.Charts, 1)
	assert.Equal(t, []string{"a", "b"}, res.Charts[0].SeriesNames())
	assert.Len(t, res.Charts[0].Data[0].X, 6)

	assert.Len(t, res.RawPreview.Rows, DefaultPreviewRows)
	assert.Equal(t, "NaN", res.RawPreview.Rows[0][1])
	assert.Equal(t, chart.HeatmapLabel, res.Heatmap.Label)

	stages := make([]string, len(res.Stages))
	for i, s := range res.Stages {
		stages[i] = s.Stage
	}
	assert.Equal(t, []string{StageLoad, StageImpute, StageSummarize, StageVisualize}, stages)
}

func TestRunSummariesPartitionColumns(t *testing.T) {
	res, err := NewProfileService().Run(context.Background(), request(testkit.MixedCSV, nil))
	require.NoError(t, err)

	var numeric, categorical []string
	for _, s := range res.Summary.Numeric {
		numeric = append(numeric, s.Column)
	}
	for _, s := range res.Summary.Categorical {
		categorical = append(categorical, s.Column)
	}
	assert.Equal(t, res.Imputed().Names(), numeric)
	assert.Equal(t, []string{"city"}, categorical)
	assert.Empty(t, res.Charts, "no charts without a selection")
}

func TestRunInfoDescribesImputedTable(t *testing.T) {
	res, err := NewProfileService().Run(context.Background(), request(testkit.MixedCSV, nil))
	require.NoError(t, err)

	info := res.Summary.Structure
	assert.Equal(t, 7, info.Rows)
	var names []string
	for _, c := range info.Columns {
		names = append(names, c.Name)
		assert.Equal(t, 7, c.NonNullCount, c.Name)
		assert.Equal(t, "float64", c.DType, c.Name)
	}
	assert.Equal(t, []string{"price", "qty"}, names)
	assert.Contains(t, info.Text(), "dtypes: float64(2)")
}

func TestRunSkipsChartsWithoutColumns(t *testing.T) {
	res, err := NewProfileService().Run(context.Background(), request(testkit.ScenarioCSV, nil, "Histogram"))
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name  string
		req   ProfileRequest
		check func(error) bool
	}{
		{"ragged rows", request(testkit.RaggedCSV, nil), core.IsParseError},
		{"no upload", ProfileRequest{}, core.IsParseError},
		{"all categorical", request(testkit.CategoricalCSV, nil), core.IsImputationError},
		{"unknown kind", request(testkit.ScenarioCSV, []string{"a"}, "PieChart"), core.IsInvalidArgumentError},
		{"unknown column", request(testkit.ScenarioCSV, []string{"zzz"}, "BoxPlot"), core.IsInvalidArgumentError},
		{"categorical column", request(testkit.MixedCSV, []string{"city"}, "BoxPlot"), core.IsInvalidArgumentError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewProfileService().Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProfileService().Run(ctx, request(testkit.ScenarioCSV, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunResultJSON(t *testing.T) {
	res, err := NewProfileService().Run(context.Background(), request("a,b\n1,5\n2,5\n3,5\n", []string{"a"}, "LineChart"))
	require.NoError(t, err)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"run_id"`)
	assert.Contains(t, string(raw), `"kind":"LineChart"`)
	assert.Contains(t, string(raw), `null`, "constant column correlation is null")
}

func TestChartAndSVG(t *testing.T) {
	svc := NewProfileService()

	c, err := svc.Chart(context.Background(), request(testkit.ScenarioCSV, []string{"a"}, ""), "violinplot")
	require.NoError(t, err)
	assert.Equal(t, chart.ViolinPlot, c.Kind)

	h, err := svc.Chart(context.Background(), request(testkit.ScenarioCSV, nil), "heatmap")
	require.NoError(t, err)
	assert.Equal(t, chart.HeatmapLabel, h.Label)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderSVG(context.Background(), request(testkit.ScenarioCSV, []string{"a", "b"}), "BoxPlot", &buf))
	assert.Contains(t, buf.String(), "<svg")

	_, err = svc.Chart(context.Background(), request(testkit.ScenarioCSV, []string{"a"}), "Pie")
	assert.True(t, core.IsInvalidArgumentError(err))
}

func TestExportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewProfileService().ExportWorkbook(context.Background(), request(testkit.MixedCSV, nil), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Imputed")
}

func TestReport(t *testing.T) {
	md, err := NewProfileService(WithPreviewRows(2)).Report(context.Background(), request(testkit.MixedCSV, nil))
	require.NoError(t, err)
	assert.Contains(t, md, "# Profile of data.csv")
	assert.Contains(t, md, "## Numeric summary")
}

func TestWorkbookUpload(t *testing.T) {
	f := excelize.NewFile()
	for i, row := range [][]interface{}{{"x", "y"}, {1, 2}, {2, nil}, {3, 6}} {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := NewProfileService().Run(context.Background(), ProfileRequest{
		Upload: dataset.Upload{Filename: "book.XLSX", Content: &buf},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.Imputation.FilledCells)
}

type mockImputer struct {
	mock.Mock
}

func (m *mockImputer) Impute(ctx context.Context, t *dataset.Table) (*imputation.Result, error) {
	args := m.Called(ctx, t)
	if res, ok := args.Get(0).(*imputation.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRunPropagatesImputerFailure(t *testing.T) {
	imp := &mockImputer{}
	imp.On("Impute", mock.Anything, mock.AnythingOfType("*dataset.Table")).
		Return(nil, core.NewImputationError("boom"))

	_, err := NewProfileService(WithImputer(imp)).Run(context.Background(), request(testkit.ScenarioCSV, nil))
	require.Error(t, err)
	assert.True(t, core.IsImputationError(err))
	imp.AssertExpectations(t)
}

type recordingPublisher struct {
	events []ports.StageEvent
}

func (p *recordingPublisher) Publish(e ports.StageEvent) { p.events = append(p.events, e) }

func TestRunPublishesStageEvents(t *testing.T) {
	pub := &recordingPublisher{}
	req := request(testkit.ScenarioCSV, []string{"a"}, "Histogram")
	req.SessionID = "tab-1"

	res, err := NewProfileService(WithEvents(pub)).Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, pub.events, 8)

	first, last := pub.events[0], pub.events[len(pub.events)-1]
	assert.Equal(t, StageLoad, first.Stage)
	assert.Equal(t, ports.StageStarted, first.Status)
	assert.Equal(t, 0.0, first.Progress)
	assert.Equal(t, StageVisualize, last.Stage)
	assert.Equal(t, ports.StageFinished, last.Status)
	assert.Equal(t, 1.0, last.Progress)
	for _, e := range pub.events {
		assert.Equal(t, "tab-1", e.SessionID)
		assert.Equal(t, res.RunID.String(), e.RunID)
	}
}

func TestRunPublishesFailure(t *testing.T) {
	pub := &recordingPublisher{}
	req := request(testkit.CategoricalCSV, nil)
	req.SessionID = "tab-2"

	_, err := NewProfileService(WithEvents(pub)).Run(context.Background(), req)
	require.Error(t, err)
	last := pub.events[len(pub.events)-1]
	assert.Equal(t, StageImpute, last.Stage)
	assert.Equal(t, ports.StageFailed, last.Status)
	assert.NotEmpty(t, last.Error)
}

func TestRunWithoutSessionPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{}
	_, err := NewProfileService(WithEvents(pub)).Run(context.Background(), request(testkit.ScenarioCSV, nil))
	require.NoError(t, err)
	assert.Empty(t, pub.events)
}
