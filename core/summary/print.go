package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const maxListedIDs = 10

// Print writes summaries as a table.
func Print(w io.Writer, summaries []Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Table", "Updated", "Deleted", "Created", "Changed columns", "Updated rows")

	for _, s := range summaries {
		if err := table.Append(
			s.Table,
			fmt.Sprint(s.Updated),
			fmt.Sprint(s.Deleted),
			fmt.Sprint(s.Created),
			strings.Join(s.Columns(), ", "),
			listIDs(s.UpdatedRows),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func listIDs(ids []int64) string {
	parts := make([]string, 0, min(len(ids), maxListedIDs)+1)
	for i, id := range ids {
		if i == maxListedIDs {
			parts = append(parts, fmt.Sprintf("... (+%d)", len(ids)-maxListedIDs))
			break
		}
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}
