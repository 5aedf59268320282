package profiling

import (
	"math"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/domain/stats"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalityAlpha is the significance level below which a column is flagged as non-normal
const NormalityAlpha = 0.05

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct {
	alpha float64
}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{alpha: NormalityAlpha}
}

// Shapes analyzes every numeric column of t in table order
func (da *DistributionAnalyzer) Shapes(t *dataset.Table) []stats.DistributionShape {
	cols := t.NumericColumns()
	out := make([]stats.DistributionShape, 0, len(cols))
	for _, c := range cols {
		out = append(out, da.AnalyzeDistribution(c.Name, c.Present()))
	}
	return out
}

// AnalyzeDistribution computes skewness, excess kurtosis, IQR outliers and a
// Jarque-Bera normality test for one column
func (da *DistributionAnalyzer) AnalyzeDistribution(name string, data []float64) stats.DistributionShape {
	nan := core.Float(math.NaN())
	shape := stats.DistributionShape{
		Column:     name,
		Count:      len(data),
		Skewness:   nan,
		Kurtosis:   nan,
		JarqueBera: nan,
		NormalityP: nan,
	}
	if len(data) == 0 {
		return shape
	}

	sorted := sortedCopy(data)
	shape.Outliers = detectOutliers(data, quantile(sorted, 0.25), quantile(sorted, 0.75))

	mean, err := mstats.Mean(data)
	if err != nil {
		return shape
	}
	// Population moments feed the bias-corrected estimators below
	m2, m3, m4 := centralMoments(data, mean)
	if m2 == 0 || math.IsNaN(m2) || math.IsInf(m2, 0) {
		return shape
	}

	skew := calculateSkewness(len(data), m2, m3)
	kurt := calculateKurtosis(len(data), m2, m4)
	shape.Skewness = core.Float(skew)
	shape.Kurtosis = core.Float(kurt)

	if len(data) >= 4 {
		jb, p := jarqueBera(len(data), m2, m3, m4)
		shape.JarqueBera = core.Float(jb)
		shape.NormalityP = core.Float(p)
		shape.LooksNormal = p > da.alpha
	}
	return shape
}

func centralMoments(data []float64, mean float64) (m2, m3, m4 float64) {
	n := float64(len(data))
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	return m2 / n, m3 / n, m4 / n
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(count int, m2, m3 float64) float64 {
	if count < 3 {
		return math.NaN()
	}
	n := float64(count)
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes bias-corrected sample excess kurtosis
func calculateKurtosis(count int, m2, m4 float64) float64 {
	if count < 4 {
		return math.NaN()
	}
	n := float64(count)
	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// jarqueBera returns the JB statistic and its chi-squared(2) p-value
func jarqueBera(count int, m2, m3, m4 float64) (float64, float64) {
	n := float64(count)
	s := m3 / math.Pow(m2, 1.5)
	k := m4/(m2*m2) - 3
	jb := n / 6 * (s*s + k*k/4)
	chi := distuv.ChiSquared{K: 2}
	return jb, 1 - chi.CDF(jb)
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
