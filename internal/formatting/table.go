// Package formatting renders incident listings for the CLI.
package formatting

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"argusglue/internal/argus"
)

// RenderIncidents writes a table of incidents to w.
func RenderIncidents(w io.Writer, incidents []argus.Incident) {
	if len(incidents) == 0 {
		io.WriteString(w, text.FgGreen.Sprint("No open incidents")+"\n")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Started", "Description", "Tags"})

	for _, inc := range incidents {
		t.AppendRow(table.Row{
			inc.ID,
			inc.StartTime.Local().Format(time.RFC3339),
			inc.Description,
			formatTags(inc.Tags),
		})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+tags[k])
	}
	return strings.Join(pairs, ", ")
}
