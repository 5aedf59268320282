package profiling

import (
	"math"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// DescribeNumeric summarizes every numeric column of t in table order.
// Missing cells are excluded from every statistic.
func DescribeNumeric(t *dataset.Table) []stats.NumericSummary {
	cols := t.NumericColumns()
	out := make([]stats.NumericSummary, 0, len(cols))
	for _, c := range cols {
		out = append(out, describeColumn(c.Name, c.Present()))
	}
	return out
}

func describeColumn(name string, data []float64) stats.NumericSummary {
	summary := stats.NumericSummary{
		Column: name,
		Count:  len(data),
		Mean:   core.Float(math.NaN()),
		StdDev: core.Float(math.NaN()),
		Min:    core.Float(math.NaN()),
		Q25:    core.Float(math.NaN()),
		Median: core.Float(math.NaN()),
		Q75:    core.Float(math.NaN()),
		Max:    core.Float(math.NaN()),
	}
	if len(data) == 0 {
		return summary
	}

	if mean, err := mstats.Mean(data); err == nil {
		summary.Mean = core.Float(mean)
	}
	if len(data) > 1 {
		if std, err := mstats.StandardDeviationSample(data); err == nil {
			summary.StdDev = core.Float(std)
		}
	}
	if min, err := mstats.Min(data); err == nil {
		summary.Min = core.Float(min)
	}
	if max, err := mstats.Max(data); err == nil {
		summary.Max = core.Float(max)
	}

	sorted := sortedCopy(data)
	summary.Q25 = core.Float(quantile(sorted, 0.25))
	summary.Median = core.Float(quantile(sorted, 0.50))
	summary.Q75 = core.Float(quantile(sorted, 0.75))
	return summary
}

// DescribeCategorical summarizes every categorical column of t in table order.
// The most frequent value wins; ties go to the value seen first.
func DescribeCategorical(t *dataset.Table) []stats.CategoricalSummary {
	cols := t.CategoricalColumns()
	out := make([]stats.CategoricalSummary, 0, len(cols))
	for _, c := range cols {
		values := c.PresentStrings()
		counts := make(map[string]int, len(values))
		summary := stats.CategoricalSummary{Column: c.Name, Count: len(values)}
		for _, v := range values {
			counts[v]++
			if counts[v] > summary.Freq {
				summary.Top, summary.Freq = v, counts[v]
			}
		}
		summary.Unique = len(counts)
		out = append(out, summary)
	}
	return out
}
