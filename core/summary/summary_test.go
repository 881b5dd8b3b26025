package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = "@@ #start# Job: `by_id` Table: `users` @@\n" +
	"@@ `users` ids from 0 to 3 @@\n" +
	`> {"id":2,"name":"[-b-]{+B+}","updated_at":"2020-[-05-]{+06+}-07"}` + "\n" +
	`> {"id":3,"name":"x","note":"[-a-]{+c+}"}` + "\n" +
	`- {"id":7,"name":"gone"}` + "\n" +
	`+ {"id":"9","name":"new"}` + "\n" +
	"@@ Job: `by_id` Table: `users` #end# @@\n" +
	"> stray line outside any block\n" +
	"@@ #start# Job: `counters` Table: `orders` @@\n" +
	"@@ `orders` count @@\n" +
	"@@ No diff @@\n" +
	"@@ Job: `counters` Table: `orders` #end# @@\n"

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleDiff))
	require.NoError(t, err)
	require.Len(t, got, 2)

	users := got[0]
	assert.Equal(t, "users", users.Table)
	assert.Equal(t, 2, users.Updated)
	assert.Equal(t, 1, users.Deleted)
	assert.Equal(t, 1, users.Created)
	assert.Equal(t, []int64{2, 3}, users.UpdatedRows)
	assert.Equal(t, []int64{7}, users.DeletedRows)
	assert.Equal(t, []int64{9}, users.CreatedRows)
	assert.Equal(t, map[string]int{"name": 1, "updated_at": 1, "note": 1}, users.ChangedColumns)
	assert.Equal(t, []string{"name", "note", "updated_at"}, users.Columns())

	orders := got[1]
	assert.Equal(t, "orders", orders.Table)
	assert.Zero(t, orders.Updated+orders.Deleted+orders.Created)
}

func TestChangedColumns_ANSI(t *testing.T) {
	line := `{"created_at":"2020-05-07T20:52:24","id":40,"name":"John` + "\x1b[4;92m changed\x1b[0m" +
		`","updated_at":"2020-` + "\x1b[9;91m05\x1b[0m\x1b[4;92m06\x1b[0m" + `-07T20:52:24"}`
	assert.Equal(t, []string{"name", "updated_at"}, changedColumns(line))
}

func TestParse_LineDifferPairs(t *testing.T) {
	diff := "@@ #start# Job: `by_id` Table: `users` @@\n" +
		`> -{"id":2,"name":"a","note":null}` + "\n" +
		`> +{"id":2,"name":"b","note":null}` + "\n" +
		"> \x1b[91m-{\"id\":5,\"name\":\"x\"}\x1b[0m\n" +
		"> \x1b[1;92m+{\"id\":5,\"name\":\"x\",\"extra\":1}\x1b[0m\n" +
		"@@ Job: `by_id` Table: `users` #end# @@\n"

	got, err := Parse(strings.NewReader(diff))
	require.NoError(t, err)
	require.Len(t, got, 1)

	users := got[0]
	assert.Equal(t, 2, users.Updated)
	assert.Equal(t, []int64{2, 5}, users.UpdatedRows)
	assert.Equal(t, map[string]int{"name": 1, "extra": 1}, users.ChangedColumns)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.diff")
	require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0o644))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.diff"))
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	summaries, err := Parse(strings.NewReader(sampleDiff))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, summaries))

	out := buf.String()
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "updated_at")
}

func TestListIDs(t *testing.T) {
	ids := make([]int64, 12)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	assert.Equal(t, "1, 2, 3, 4, 5, 6, 7, 8, 9, 10, ... (+2)", listIDs(ids))
	assert.Equal(t, "", listIDs(nil))
}
