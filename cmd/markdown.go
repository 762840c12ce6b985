package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/coinvest/renderer"
)

// display holds the output flags of the commands printing a view.
type display struct {
	html bool
}

func (d *display) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&d.html, "html", false, "print HTML instead of terminal markdown")
}

// print writes the markdown document 'md' to stdout.
func (d *display) print(md string) error {
	if d.html {
		out, err := renderer.HTML(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	printMarkdown(md)
	return nil
}

// printMarkdown renders 'md' for the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
