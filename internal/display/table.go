package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/grovetools/agentchat/internal/chat"
)

// KindCount is one row of a kind summary.
type KindCount struct {
	Kind       chat.Kind
	Count      int
	Structured int
}

// SummarizeKinds counts events per kind in chat.Kinds order. Structured
// counts the JSON-bearing events whose text normalized to JSON.
func SummarizeKinds(events []chat.Event) []KindCount {
	index := make(map[chat.Kind]*KindCount, len(chat.Kinds))
	rows := make([]KindCount, len(chat.Kinds))
	for i, k := range chat.Kinds {
		rows[i].Kind = k
		index[k] = &rows[i]
	}

	classifier := chat.NewClassifier()
	for _, e := range events {
		row, ok := index[e.Kind()]
		if !ok {
			continue
		}
		row.Count++
		if classifier.Classify(e).Structured {
			row.Structured++
		}
	}
	return rows
}

// PrintKindSummary prints non-empty summary rows in a formatted table.
func PrintKindSummary(rows []KindCount, writer io.Writer) {
	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KIND\tSIDE\tCOUNT\tSTRUCTURED")
	for _, r := range rows {
		if r.Count == 0 {
			continue
		}
		side := "agent"
		if r.Kind.FromUser() {
			side = "user"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.Kind, side, r.Count, r.Structured)
	}
	w.Flush()
}
