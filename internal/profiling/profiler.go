// Package profiling computes the descriptive summaries shown next to the charts.
package profiling

import (
	"csvlens/domain/dataset"
	"csvlens/domain/stats"
)

// Summary bundles every summary computed for one upload
type Summary struct {
	Numeric     []stats.NumericSummary     `json:"numeric"`
	Categorical []stats.CategoricalSummary `json:"categorical"`
	Correlation stats.CorrelationMatrix    `json:"correlation"`
	Structure   stats.StructureSummary     `json:"structure"`
	Shapes      []stats.DistributionShape  `json:"shapes"`
}

// DataProfiler orchestrates the summaries of a raw table and its imputed counterpart
type DataProfiler struct {
	distribution *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{distribution: NewDistributionAnalyzer()}
}

// Summarize describes the imputed numeric columns, the categorical columns
// of the raw table and the correlation of the imputed columns. The structure
// block describes the imputed table, so every non-null count equals the row count.
func (dp *DataProfiler) Summarize(raw, imputed *dataset.Table) Summary {
	return Summary{
		Numeric:     DescribeNumeric(imputed),
		Categorical: DescribeCategorical(raw),
		Correlation: Correlate(imputed),
		Structure:   Structure(imputed),
		Shapes:      dp.distribution.Shapes(imputed),
	}
}
