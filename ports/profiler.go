package ports

import (
	"context"
	"io"

	"csvlens/domain/chart"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"
	"csvlens/internal/imputation"
	"csvlens/internal/profiling"
)

// Imputer fills the missing numeric cells of a table
type Imputer interface {
	Impute(ctx context.Context, t *dataset.Table) (*imputation.Result, error)
}

// Summarizer computes the descriptive summaries of a raw table and its imputed counterpart
type Summarizer interface {
	Summarize(raw, imputed *dataset.Table) profiling.Summary
}

// ChartBuilder turns an imputed table and a selection into figures
type ChartBuilder interface {
	Build(t *dataset.Table, req chart.Request) ([]chart.Chart, error)
	BuildOne(t *dataset.Table, columns []string, kind chart.Kind) (*chart.Chart, error)
	Heatmap(m stats.CorrelationMatrix) chart.Chart
}

// ChartRenderer draws a figure into a static document
type ChartRenderer interface {
	Render(w io.Writer, c *chart.Chart) error
}
