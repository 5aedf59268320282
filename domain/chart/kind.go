package chart

import (
	"strconv"
	"strings"

	"csvlens/domain/core"
)

// Kind is one of the closed set of chart types a user can request
type Kind int

const (
	Histogram Kind = iota + 1
	BoxPlot
	ViolinPlot
	ScatterMatrix
	BarChart
	LineChart
)

// Kinds lists every requestable kind in display order
var Kinds = []Kind{Histogram, BoxPlot, ViolinPlot, ScatterMatrix, BarChart, LineChart}

var kindLabels = map[Kind]string{
	Histogram:     "Histogram",
	BoxPlot:       "BoxPlot",
	ViolinPlot:    "ViolinPlot",
	ScatterMatrix: "ScatterMatrix",
	BarChart:      "BarChart",
	LineChart:     "LineChart",
}

var kindTitles = map[Kind]string{
	Histogram:     "Histogram",
	BoxPlot:       "Box plot",
	ViolinPlot:    "Violin plot",
	ScatterMatrix: "Scatter matrix",
	BarChart:      "Bar chart",
	LineChart:     "Line chart",
}

// String returns the wire label
func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return "Unknown"
}

// Title returns the human readable name
func (k Kind) Title() string {
	if title, ok := kindTitles[k]; ok {
		return title
	}
	return "Unknown"
}

// Valid reports whether k belongs to the closed set
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, core.NewInvalidArgumentError("kind", "unknown chart kind")
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a label onto a Kind; matching ignores case and surrounding space
func ParseKind(label string) (Kind, error) {
	trimmed := strings.TrimSpace(label)
	for _, k := range Kinds {
		if strings.EqualFold(kindLabels[k], trimmed) {
			return k, nil
		}
	}
	return 0, core.NewInvalidArgumentError("kind", "unknown chart kind "+strconv.Quote(trimmed))
}

// ParseKinds parses every label, failing on the first unknown one
func ParseKinds(labels []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(labels))
	for _, label := range labels {
		k, err := ParseKind(label)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Labels returns the wire labels of all kinds
func Labels() []string {
	out := make([]string, len(Kinds))
	for i, k := range Kinds {
		out[i] = k.String()
	}
	return out
}
