package visualization

import (
	"csvlens/domain/core"
	"csvlens/domain/stats"
)

func statsMatrix(columns []string, fill core.Float) stats.CorrelationMatrix {
	m := stats.CorrelationMatrix{Columns: columns, Values: make([][]core.Float, len(columns))}
	for i := range m.Values {
		m.Values[i] = make([]core.Float, len(columns))
		for j := range m.Values[i] {
			m.Values[i][j] = fill
		}
	}
	return m
}
