package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/coinvest/search"
	md "github.com/nao1215/markdown"
)

// SearchResults renders the result area of the investor search box.
func SearchResults(text string, results []search.Result, err error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Investors matching %q", text))
	if err != nil {
		doc.PlainText(fmt.Sprintf("Search failed: %v", err))
	}
	if len(results) == 0 {
		doc.PlainText("No investor found.")
		return doc.String()
	}
	table := md.TableSet{
		Header:    []string{"ID", "Username"},
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{fmt.Sprint(r.ID), cell(r.Label)})
	}
	doc.Table(table)
	return doc.String()
}
