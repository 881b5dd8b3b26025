package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChar_EqualInputsProduceNothing(t *testing.T) {
	inputs := []string{"", "x", `{"id":1,"name":"chair"}`}
	for _, color := range []bool{false, true} {
		d := NewChar(color)
		for _, in := range inputs {
			out, changed := d.Diff(in, in)
			assert.False(t, changed)
			assert.Empty(t, out)
		}
	}
}

func TestChar_MarksChangedTokens(t *testing.T) {
	d := NewChar(false)

	out, changed := d.Diff(`{"id":2,"name":"chair"}`, `{"id":2,"name":"table"}`)
	require.True(t, changed)
	assert.Equal(t, `{"id":2,"name":"[-chair-]{+table+}"}`, out)

	out, changed = d.Diff("10", "9")
	require.True(t, changed)
	assert.Equal(t, "[-10-]{+9+}", out)

	out, changed = d.Diff("a b", "a")
	require.True(t, changed)
	assert.Equal(t, "a[- b-]", out)
}

func TestChar_Deterministic(t *testing.T) {
	d := NewChar(false)
	first, _ := d.Diff(`{"id":1,"x":"abc def"}`, `{"id":1,"x":"abd deg"}`)
	for i := 0; i < 5; i++ {
		again, _ := d.Diff(`{"id":1,"x":"abc def"}`, `{"id":1,"x":"abd deg"}`)
		assert.Equal(t, first, again)
	}
}

func TestChar_Color(t *testing.T) {
	out, changed := NewChar(true).Diff("old", "new")
	require.True(t, changed)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "old")
	assert.Contains(t, out, "new")
	// one opening and one reset sequence per span
	assert.Equal(t, 4, strings.Count(out, "\x1b["))

	out, changed = NewLine(true).Diff("a\nb", "a\nc")
	require.True(t, changed)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "-b")
	assert.Contains(t, lines[1], "+c")
}

func TestLine(t *testing.T) {
	d := NewLine(false)

	out, changed := d.Diff("accounts\nitems\nusers", "accounts\nusers\nwallets")
	require.True(t, changed)
	assert.Equal(t, "-items\n+wallets", out)

	out, changed = d.Diff("a\nb", "a\nb")
	assert.False(t, changed)
	assert.Empty(t, out)

	out, changed = d.Diff("", "a")
	require.True(t, changed)
	assert.Equal(t, "+a", out)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    any
		wantErr bool
	}{
		{"", &Char{}, false},
		{"char", &Char{}, false},
		{"LINE", &Line{}, false},
		{"word", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.name, false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, d)
		})
	}
}
