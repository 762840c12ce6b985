// Package coinvest provides the client side of a co-owned investment account
// service: accounts whose capital is contributed by several investors (the
// co-owners) and whose profit is split among them.
//
// The core functionalities include:
//   - Data Model: investors, investment accounts, co-owners and the per
//     operation shares, mirrored from the server JSON.
//   - Capital Allocation: the clamp that keeps the sum of the co-owners'
//     capital under the account total while one of them is edited.
//   - Amounts: decimal parsing of user-entered text (blank is zero) and money
//     formatting for display.
//   - Form Validation: local checks run before a form is submitted, reported
//     with the same ValidationError the server errors are decoded into.
//
// The view-models driving these behaviors live in the search, capital, share
// and accounts packages, the HTTP client in the api package. Together they
// are the foundation of the `coinvest` command-line tool.
package coinvest
