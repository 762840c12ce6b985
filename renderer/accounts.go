package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/coinvest"
	"github.com/google/uuid"
	md "github.com/nao1215/markdown"
)

// Accounts renders the investment accounts of the user. 'def' is marked as the
// default account, 'formErrors' are the errors of the last creation attempt.
func Accounts(accounts []coinvest.InvestmentAccount, def uuid.UUID, formErrors *coinvest.ValidationError, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Investment accounts")
	if len(accounts) == 0 {
		doc.PlainText("No investment account yet.")
	} else {
		table := md.TableSet{
			Header:    []string{"ID", "Name", "Sharing", "Capital", "Income", ""},
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		}
		for _, a := range accounts {
			cur := currency
			if a.Currency != "" {
				cur = a.Currency
			}
			mark := ""
			if a.ID == def {
				mark = "default"
			}
			table.Rows = append(table.Rows, []string{
				a.ID.String(),
				cell(a.Name),
				a.CapitalSharingPrinciple.String(),
				coinvest.M(a.TotalCapital, cur).String(),
				coinvest.M(a.TotalIncome, cur).String(),
				mark,
			})
		}
		doc.Table(table)
	}
	doc.Build()

	ConditionalBlock(&buf, func(w io.Writer) bool {
		if formErrors.Empty() {
			return false
		}
		io.WriteString(w, "\n\n")
		errs := md.NewMarkdown(w)
		errs.H2("Account not created")
		errs.BulletList(formErrors.Alerts()...)
		errs.Build()
		return true
	})
	return buf.String()
}
