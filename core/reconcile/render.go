package reconcile

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"db-compare/core/differ"
)

const (
	diffPrefix    = "> "
	missingPrefix = "- "
	extraPrefix   = "+ "
)

// Render turns a reconciliation result into a DiffRecord.
// Matched pairs the differ reports as equal are omitted. Multi-line differ
// output yields one "> " entry per line. Missing and extra
// rows are always rendered in full.
func Render(header, key string, result ReconciliationResult, d differ.Differ) (DiffRecord, error) {
	rec := DiffRecord{Header: header}

	for _, p := range result.Matched {
		old, err := CanonicalJSON(p.A, key)
		if err != nil {
			return DiffRecord{}, err
		}
		cur, err := CanonicalJSON(p.B, key)
		if err != nil {
			return DiffRecord{}, err
		}
		if out, changed := d.Diff(old, cur); changed {
			rec.Diffs = appendDiffLines(rec.Diffs, out)
		}
	}

	for _, row := range result.Missing {
		line, err := CanonicalJSON(row, key)
		if err != nil {
			return DiffRecord{}, err
		}
		rec.Missing = append(rec.Missing, missingPrefix+line)
	}

	for _, row := range result.Extra {
		line, err := CanonicalJSON(row, key)
		if err != nil {
			return DiffRecord{}, err
		}
		rec.Extra = append(rec.Extra, extraPrefix+line)
	}

	return rec, nil
}

// RenderScalars diffs two string lists positionally as a single blob.
// Each line of the differ output becomes a "> " line.
func RenderScalars(header string, a, b []string, d differ.Differ) DiffRecord {
	rec := DiffRecord{Header: header}
	out, changed := d.Diff(strings.Join(a, "\n"), strings.Join(b, "\n"))
	if !changed {
		return rec
	}
	rec.Diffs = appendDiffLines(rec.Diffs, out)
	return rec
}

// appendDiffLines adds one "> " entry per non-empty line of out.
func appendDiffLines(diffs []string, out string) []string {
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		diffs = append(diffs, diffPrefix+line)
	}
	return diffs
}

// CanonicalJSON serializes row with the key column first and the remaining
// columns in lexical order, so equal rows always produce equal text.
func CanonicalJSON(row Row, key string) (string, error) {
	cols := make([]string, 0, len(row))
	for c := range row {
		if c != key {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)
	if _, ok := row[key]; ok {
		cols = append([]string{key}, cols...)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c)
		if err != nil {
			return "", err
		}
		val, err := json.Marshal(row[c])
		if err != nil {
			return "", err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}
