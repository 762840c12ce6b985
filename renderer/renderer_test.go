package renderer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/capital"
	"github.com/etnz/coinvest/search"
	"github.com/etnz/coinvest/share"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// countNodes parses 'markdown' and counts the nodes of each kind.
func countNodes(t *testing.T, markdown string) map[ast.NodeKind]int {
	t.Helper()
	doc := converter.Parser().Parse(text.NewReader([]byte(markdown)))
	counts := make(map[ast.NodeKind]int)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			counts[n.Kind()]++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk the markdown: %v", err)
	}
	return counts
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output does not contain %q:\n%s", w, got)
		}
	}
}

func capitalView() capital.View {
	return capital.View{
		Account: coinvest.InvestmentAccount{
			ID:                      uuid.MustParse("9b2f6c2e-3f4d-4a8e-9a51-0f6a1d3c5b7e"),
			Name:                    "family",
			TotalCapital:            d("1000"),
			CapitalSharingPrinciple: coinvest.Relative,
		},
		Rows: []capital.Row{
			{CoOwnerID: 1, Name: "alice", IsCreator: true, Capital: "600", DefaultShare: "60"},
			{CoOwnerID: 2, Name: "bob|jr", Capital: "300.5", DefaultShare: "", Pending: true},
		},
		Allocated: d("900.5"),
		Remaining: d("99.5"),
	}
}

func TestRenderCapital(t *testing.T) {
	got := RenderCapital(capitalView(), "USD")
	assertContains(t, got,
		"# family",
		"Capital sharing: relative.",
		"Total capital $1,000.00",
		"| 1 | alice (creator) | 600.00 | 60.00 |",
		`| 2 | bob\|jr | 300.50 * | 0.00 |`,
		"Allocated $900.50, remaining $99.50.",
	)
	if strings.Contains(got, "Saving") {
		t.Errorf("idle editor rendered as saving:\n%s", got)
	}

	counts := countNodes(t, got)
	if counts[east.KindTable] != 1 || counts[east.KindTableRow] != 2 {
		t.Errorf("want one table of two rows, got %d tables, %d rows:\n%s", counts[east.KindTable], counts[east.KindTableRow], got)
	}
	if counts[ast.KindHeading] != 2 {
		t.Errorf("want 2 headings, got %d:\n%s", counts[ast.KindHeading], got)
	}
}

func TestRenderCapital_Empty(t *testing.T) {
	v := capitalView()
	v.Rows = nil
	v.Busy = true
	got := RenderCapital(v, "")
	assertContains(t, got, "No co-owner yet.", "_Saving..._", "Total capital 1000.00")
	if countNodes(t, got)[east.KindTable] != 0 {
		t.Errorf("an empty editor renders a table:\n%s", got)
	}
}

func TestSearchResults(t *testing.T) {
	results := []search.Result{{ID: 1, Label: "abby"}, {ID: 2, Label: "abe"}}
	got := SearchResults("ab", results, nil)
	assertContains(t, got, `Investors matching "ab"`, "abby", "abe")
	if countNodes(t, got)[east.KindTable] != 1 {
		t.Errorf("results are not a table:\n%s", got)
	}

	got = SearchResults("zz", nil, errors.New("connection refused"))
	assertContains(t, got, "No investor found.", "Search failed: connection refused")
}

func TestAccounts(t *testing.T) {
	mainID := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	accounts := []coinvest.InvestmentAccount{
		{ID: mainID, Name: "main", TotalCapital: d("1500.5"), CapitalSharingPrinciple: coinvest.Absolute, Currency: "EUR"},
		{ID: uuid.MustParse("22222222-2222-4222-8222-222222222222"), Name: "savings"},
	}
	got := Accounts(accounts, mainID, nil, "USD")
	assertContains(t, got, "# Investment accounts", mainID.String(), "absolute", "€1,500.50", "default", "savings")
	if strings.Contains(got, "Account not created") {
		t.Errorf("errors rendered without errors:\n%s", got)
	}

	verr := &coinvest.ValidationError{}
	verr.Add("token", "This field is required.")
	got = Accounts(nil, uuid.Nil, verr, "USD")
	assertContains(t, got, "No investment account yet.", "## Account not created", "token: This field is required.")
	if countNodes(t, got)[ast.KindList] != 1 {
		t.Errorf("errors are not a list:\n%s", got)
	}
}

type noClient struct{}

func (noClient) UpdateShare(_ context.Context, _ int64, _ decimal.Decimal) (coinvest.OperationShare, error) {
	return coinvest.OperationShare{}, errors.New("offline")
}

func (noClient) Shares(context.Context, int64) ([]coinvest.OperationShare, error) {
	return nil, errors.New("offline")
}

func TestShares(t *testing.T) {
	e := share.NewEditor(noClient{},
		coinvest.OperationShare{ID: 7, InvestorName: "bob", Value: d("42.5")},
		coinvest.OperationShare{ID: 8, Investor: 3, Value: d("57.5")},
	)
	e.Activate(8)
	e.Type(8, "60")

	got := Shares(3, e)
	assertContains(t, got, "Shares of operation 3", "#7 bob: 42.50", "#8 editing: `60`")
	if countNodes(t, got)[ast.KindListItem] != 2 {
		t.Errorf("want 2 list items:\n%s", got)
	}
}

func TestAlerts(t *testing.T) {
	verr := &coinvest.ValidationError{Fields: map[string][]string{
		"value":  {"Too big."},
		"detail": {"Not allowed."},
	}}
	got := Alerts(verr)
	assertContains(t, got, "Not allowed.", "value: Too big.")
	if countNodes(t, got)[ast.KindListItem] != 2 {
		t.Errorf("want one item per alert:\n%s", got)
	}
	assertContains(t, Alerts(errors.New("offline")), "offline")
}

func TestHTML(t *testing.T) {
	got, err := HTML(SearchResults("ab", []search.Result{{ID: 1, Label: "abby"}}, nil))
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	assertContains(t, got, "<h2>", "<table>", "abby</td>")
}
