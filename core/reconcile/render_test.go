package reconcile

import (
	"testing"

	"db-compare/core/differ"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSON(t *testing.T) {
	out, err := CanonicalJSON(Row{"zeta": 1, "id": 7, "alpha": "x", "nothing": nil}, "id")
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"alpha":"x","nothing":null,"zeta":1}`, out)

	out, err = CanonicalJSON(Row{"b": 2, "a": 1}, "id")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, out)
}

func TestRender_IdenticalRowsProduceNoLines(t *testing.T) {
	res := ReconciliationResult{Matched: []Pair{{A: Row{"id": 1, "v": "x"}, B: Row{"id": 1, "v": "x"}}}}
	rec, err := Render("t", "id", res, differ.NewChar(false))
	require.NoError(t, err)
	assert.True(t, rec.Empty())
	assert.Equal(t, "t", rec.Header)
}

func TestRender_LineDifferOneEntryPerLine(t *testing.T) {
	res, err := Reconcile(
		Rows{{"id": 2, "name": "a"}},
		Rows{{"id": 2, "name": "b"}},
		"id",
	)
	require.NoError(t, err)

	rec, err := Render("t", "id", res, differ.NewLine(false))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`> -{"id":2,"name":"a"}`,
		`> +{"id":2,"name":"b"}`,
	}, rec.Diffs)
	for _, line := range rec.Diffs {
		assert.NotContains(t, line, "\n")
	}
}

func TestRenderScalars(t *testing.T) {
	rec := RenderScalars("count", []string{"10"}, []string{"10"}, differ.NewChar(false))
	assert.True(t, rec.Empty())

	rec = RenderScalars("count", []string{"10"}, []string{"9"}, differ.NewChar(false))
	assert.Equal(t, []string{"> [-10-]{+9+}"}, rec.Diffs)

	rec = RenderScalars("tables", []string{"a", "b", "c"}, []string{"a", "c", "d"}, differ.NewLine(false))
	assert.Equal(t, []string{"> -b", "> +d"}, rec.Diffs)
}
