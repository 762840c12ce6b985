package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/share"
	md "github.com/nao1215/markdown"
)

// Shares renders the shares of an operation, one label per share. A share
// being edited shows its input text instead.
func Shares(operation int64, e *share.Editor) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Shares of operation %d", operation))
	records := e.Records()
	if len(records) == 0 {
		doc.PlainText("No share.")
		return doc.String()
	}
	items := make([]string, 0, len(records))
	for _, r := range records {
		item := fmt.Sprintf("#%d %s", r.ID, e.Label(r.ID))
		if e.State(r.ID) == share.Editing {
			item = fmt.Sprintf("#%d editing: `%s`", r.ID, e.Input(r.ID))
		}
		items = append(items, item)
	}
	doc.BulletList(items...)
	return doc.String()
}

// Alerts renders the messages of 'err', one per invalid field.
func Alerts(err error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	if verr, ok := coinvest.AsValidationError(err); ok {
		doc.BulletList(verr.Alerts()...)
	} else {
		doc.PlainText(err.Error())
	}
	return doc.String()
}
