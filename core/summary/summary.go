package summary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	startMarker = "#start#"
	endMarker   = "#end#"
)

var (
	tablePattern = regexp.MustCompile("Table:\\s`(?P<table>.+?)`")
	idPattern    = regexp.MustCompile(`"id":(\d+)`)
	keyPattern   = regexp.MustCompile(`"([^"]+)":`)
	ansiPattern  = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// changeMarkers appear inside a rendered value that differs between sources.
var changeMarkers = []string{"[-", "{+", "\x1b["}

// Summary counts the changes found for one table block of a diff file.
type Summary struct {
	Table   string
	Updated int
	Deleted int
	Created int
	// UpdatedRows are ids of "> " lines, in file order.
	UpdatedRows []int64
	// DeletedRows are ids of "- " lines (rows only on the primary).
	DeletedRows []int64
	// CreatedRows are ids of "+ " lines (rows only on the secondary).
	CreatedRows []int64
	// ChangedColumns counts how many "> " lines touched each column.
	ChangedColumns map[string]int
}

// Columns returns the changed column names, most frequent first.
func (s Summary) Columns() []string {
	cols := make([]string, 0, len(s.ChangedColumns))
	for c := range s.ChangedColumns {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		ci, cj := s.ChangedColumns[cols[i]], s.ChangedColumns[cols[j]]
		if ci != cj {
			return ci > cj
		}
		return cols[i] < cols[j]
	})
	return cols
}

// ParseFile reads the diff file at path.
func ParseFile(path string) ([]Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open diff file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a diff stream and returns one Summary per #start#/#end# block.
// Lines outside a block are ignored.
func Parse(r io.Reader) ([]Summary, error) {
	var (
		out     []Summary
		current *Summary
		// removed holds the "-" half of a line differ pair.
		removed string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "> ") {
			removed = ""
		}

		switch {
		case strings.Contains(line, startMarker):
			current = &Summary{ChangedColumns: map[string]int{}}
			if m := tablePattern.FindStringSubmatch(line); m != nil {
				current.Table = m[tablePattern.SubexpIndex("table")]
			}
		case strings.Contains(line, endMarker):
			if current != nil {
				out = append(out, *current)
				current = nil
			}
		case current == nil:
			continue
		case strings.HasPrefix(line, "> "):
			body := ansiPattern.ReplaceAllString(line[2:], "")
			if strings.HasPrefix(body, "-{") {
				removed = body[1:]
				current.Updated++
				if id, ok := rowID(removed); ok {
					current.UpdatedRows = append(current.UpdatedRows, id)
				}
				continue
			}
			if strings.HasPrefix(body, "+{") && removed != "" {
				for _, col := range differingKeys(removed, body[1:]) {
					current.ChangedColumns[col]++
				}
				removed = ""
				continue
			}
			current.Updated++
			if id, ok := diffID(line); ok {
				current.UpdatedRows = append(current.UpdatedRows, id)
			}
			for _, col := range changedColumns(line[2:]) {
				current.ChangedColumns[col]++
			}
		case strings.HasPrefix(line, "- "):
			current.Deleted++
			if id, ok := rowID(line[2:]); ok {
				current.DeletedRows = append(current.DeletedRows, id)
			}
		case strings.HasPrefix(line, "+ "):
			current.Created++
			if id, ok := rowID(line[2:]); ok {
				current.CreatedRows = append(current.CreatedRows, id)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diff: %w", err)
	}
	return out, nil
}

// diffID finds the id of a rendered diff line, which is not valid JSON.
func diffID(line string) (int64, bool) {
	m := idPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	return id, err == nil
}

// rowID reads the id of a serialized row.
func rowID(row string) (int64, bool) {
	res := gjson.Get(row, "id")
	if !res.Exists() {
		return 0, false
	}
	if res.Type == gjson.Number {
		return res.Int(), true
	}
	id, err := strconv.ParseInt(res.String(), 10, 64)
	return id, err == nil
}

// differingKeys returns the keys of two serialized rows whose values differ,
// in the order they appear in old followed by keys only in new.
func differingKeys(old, new string) []string {
	a, b := gjson.Parse(old), gjson.Parse(new)
	seen := map[string]struct{}{}
	var cols []string
	a.ForEach(func(k, v gjson.Result) bool {
		seen[k.String()] = struct{}{}
		if w := b.Get(gjson.Escape(k.String())); !w.Exists() || w.Raw != v.Raw {
			cols = append(cols, k.String())
		}
		return true
	})
	b.ForEach(func(k, _ gjson.Result) bool {
		if _, ok := seen[k.String()]; !ok {
			cols = append(cols, k.String())
		}
		return true
	})
	return cols
}

// changedColumns returns the keys whose value span carries a change marker.
func changedColumns(body string) []string {
	locs := keyPattern.FindAllStringSubmatchIndex(body, -1)
	var cols []string
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := body[loc[1]:end]
		for _, m := range changeMarkers {
			if strings.Contains(value, m) {
				cols = append(cols, body[loc[2]:loc[3]])
				break
			}
		}
	}
	return cols
}
