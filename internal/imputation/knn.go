// Package imputation fills missing numeric cells with k-nearest-neighbour estimates.
package imputation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"csvlens/domain/core"
	"csvlens/domain/dataset"
	"csvlens/internal"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultNeighbors is the fixed neighbour count used by the dashboard
const DefaultNeighbors = 5

// Weighting selects how donor values are combined
type Weighting int

const (
	// WeightUniform averages the donors
	WeightUniform Weighting = iota
	// WeightDistance weights donors by inverse distance
	WeightDistance
)

// ColumnFill records how many cells of one column were filled
type ColumnFill struct {
	Column string `json:"column"`
	Filled int    `json:"filled"`
}

// Result is the imputed numeric table plus what changed
type Result struct {
	Table        *dataset.Table `json:"-"`
	FilledCells  int            `json:"filled_cells"`
	Columns      []ColumnFill   `json:"columns"`
	EmptyColumns []string       `json:"empty_columns,omitempty"`
}

// KNNImputer fills every missing numeric cell from the k nearest rows that
// have the cell present
type KNNImputer struct {
	neighbors int
	weighting Weighting
	logger    *internal.Logger
}

// Option configures a KNNImputer
type Option func(*KNNImputer)

// WithWeighting switches the donor weighting
func WithWeighting(w Weighting) Option {
	return func(k *KNNImputer) { k.weighting = w }
}

// WithLogger sets the logger
func WithLogger(l *internal.Logger) Option {
	return func(k *KNNImputer) { k.logger = l.With("Imputer") }
}

// NewKNNImputer creates an imputer with k neighbours
func NewKNNImputer(neighbors int, opts ...Option) *KNNImputer {
	if neighbors < 1 {
		neighbors = DefaultNeighbors
	}
	k := &KNNImputer{
		neighbors: neighbors,
		weighting: WeightUniform,
		logger:    internal.DefaultLogger.With("Imputer"),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Impute returns a table of the numeric columns of t with no missing cells.
// Categorical columns are dropped; present values are copied unchanged.
func (k *KNNImputer) Impute(ctx context.Context, t *dataset.Table) (*Result, error) {
	if t == nil {
		return nil, core.NewImputationError("no table to impute")
	}
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return nil, core.NewImputationError("table has no numeric columns")
	}

	rows, cols := t.NumRows(), len(numeric)
	x := mat.NewDense(max(rows, 1), cols, nil)
	for j, c := range numeric {
		for i := 0; i < rows; i++ {
			x.Set(i, j, c.Numbers[i])
		}
	}

	out := mat.DenseCopyOf(x)
	result := &Result{}
	distances := make(map[int]*mat.VecDense)

	for j, c := range numeric {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		missing := c.MissingCount()
		if missing == 0 {
			continue
		}
		donors := presentRows(c)
		if len(donors) == 0 {
			k.logger.Warn("column %q has no present values; filling with 0", c.Name)
			for i := 0; i < rows; i++ {
				out.Set(i, j, 0)
			}
			result.EmptyColumns = append(result.EmptyColumns, c.Name)
			result.FilledCells += missing
			result.Columns = append(result.Columns, ColumnFill{Column: c.Name, Filled: missing})
			continue
		}
		fallback := stat.Mean(presentValues(c, donors), nil)

		for i := 0; i < rows; i++ {
			if !c.IsMissing(i) {
				continue
			}
			d, ok := distances[i]
			if !ok {
				d = mat.NewVecDense(rows, nil)
				rowDistances(x, i, d)
				distances[i] = d
			}
			out.Set(i, j, k.estimate(x, j, donors, d, fallback))
		}
		result.FilledCells += missing
		result.Columns = append(result.Columns, ColumnFill{Column: c.Name, Filled: missing})
	}

	imputed := make([]*dataset.Column, cols)
	for j, c := range numeric {
		values := make([]float64, rows)
		for i := 0; i < rows; i++ {
			if c.IsMissing(i) {
				values[i] = out.At(i, j)
			} else {
				values[i] = c.Numbers[i]
			}
		}
		imputed[j] = dataset.NewNumericColumn(c.Name, values)
	}
	table, err := dataset.NewTable(imputed)
	if err != nil {
		return nil, core.NewImputationError(fmt.Sprintf("assembling imputed table: %v", err))
	}
	result.Table = table

	k.logger.Debug("filled %d cells across %d numeric columns (k=%d)", result.FilledCells, cols, k.neighbors)
	return result, nil
}

type neighbor struct {
	row  int
	dist float64
}

// estimate combines the nearest comparable donors of column j
func (k *KNNImputer) estimate(x mat.Matrix, j int, donors []int, d *mat.VecDense, fallback float64) float64 {
	candidates := make([]neighbor, 0, len(donors))
	for _, r := range donors {
		dist := d.AtVec(r)
		if math.IsNaN(dist) {
			continue
		}
		candidates = append(candidates, neighbor{row: r, dist: dist})
	}
	if len(candidates) == 0 {
		return fallback
	}

	// donors arrive in row order, so a stable sort breaks ties by row
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].dist < candidates[b].dist
	})
	if len(candidates) > k.neighbors {
		candidates = candidates[:k.neighbors]
	}

	values := make([]float64, len(candidates))
	for n, c := range candidates {
		values[n] = x.At(c.row, j)
	}
	if k.weighting == WeightUniform {
		return stat.Mean(values, nil)
	}
	return stat.Mean(values, inverseDistanceWeights(candidates))
}

// inverseDistanceWeights gives zero-distance donors all of the weight
func inverseDistanceWeights(neighbors []neighbor) []float64 {
	weights := make([]float64, len(neighbors))
	exact := false
	for n, nb := range neighbors {
		if nb.dist == 0 {
			weights[n] = 1
			exact = true
		}
	}
	if exact {
		return weights
	}
	for n, nb := range neighbors {
		weights[n] = 1 / nb.dist
	}
	return weights
}

func presentRows(c *dataset.Column) []int {
	rows := make([]int, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			rows = append(rows, i)
		}
	}
	return rows
}

func presentValues(c *dataset.Column, rows []int) []float64 {
	values := make([]float64, len(rows))
	for n, r := range rows {
		values[n] = c.Numbers[r]
	}
	return values
}
