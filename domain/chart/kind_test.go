package chart

import (
	"encoding/json"
	"testing"

	"csvlens/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	parsed, err := ParseKind("  boxplot ")
	require.NoError(t, err)
	assert.Equal(t, BoxPlot, parsed)

	_, err = ParseKind("PieChart")
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgumentError(err))
}

func TestParseKindsStopsAtFirstUnknown(t *testing.T) {
	kinds, err := ParseKinds([]string{"Histogram", "LineChart"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Histogram, LineChart}, kinds)

	_, err = ParseKinds([]string{"Histogram", "Radar"})
	assert.True(t, core.IsInvalidArgumentError(err))
}

func TestKindTextRoundTrip(t *testing.T) {
	out, err := json.Marshal(Request{Columns: []string{"a"}, Kinds: []Kind{ViolinPlot}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a"],"kinds":["ViolinPlot"]}`, string(out))

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"columns":["x"],"kinds":["scattermatrix"]}`), &req))
	assert.Equal(t, []Kind{ScatterMatrix}, req.Kinds)

	err = json.Unmarshal([]byte(`{"kinds":["Donut"]}`), &req)
	assert.Error(t, err)
}

func TestUnknownKind(t *testing.T) {
	var k Kind
	assert.False(t, k.Valid())
	assert.Equal(t, "Unknown", k.String())
	assert.Len(t, Labels(), 6)
}
