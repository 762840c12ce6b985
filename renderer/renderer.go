package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/coinvest"
	"github.com/etnz/coinvest/capital"
)

//go:embed *.md
var templates embed.FS

// RenderCapital renders the capital editor of an account to a markdown string.
// 'currency' is used when the account does not tell its own.
func RenderCapital(v capital.View, currency string) string {
	partials := map[string]string{
		"capital_title":    "capital_title.md",
		"capital_coowners": "capital_coowners.md",
	}
	return renderTemplate("capital", "capital.md", partials, NewCapital(v, currency))
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// an empty file name results in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var funcs = template.FuncMap{
	"cell": cell,
	"amount": func(s string) string {
		if d, err := coinvest.ParseAmount(s); err == nil {
			return coinvest.FormatAmount(d)
		}
		return s
	},
}

// cell escapes 's' for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
