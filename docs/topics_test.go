package docs_test

import (
	"bufio"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/coinvest/cmd"
	"github.com/etnz/coinvest/docs"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestTopics checks that readme.md lists exactly the topics of the directory.
func TestTopics(t *testing.T) {
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			listed = append(listed, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.Topic(topic); err != nil {
			t.Errorf("topic %q listed in readme.md: %v", topic, err)
		}
	}

	all, err := docs.All()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopics_All(t *testing.T) {
	all, err := docs.All()
	if err != nil {
		t.Fatal(err)
	}
	doc, err := docs.Topics("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		content, _ := docs.Topic(topic)
		if !strings.Contains(doc, content) {
			t.Errorf("Topics(\"*\") misses %q", topic)
		}
	}
	if _, err := docs.Topics("nope"); err == nil {
		t.Error("Topics() of an unknown topic succeeded")
	}
}

// TestConsoleBlocks checks that the commands shown in the manual exist.
func TestConsoleBlocks(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("coinvest", flag.ContinueOnError), "coinvest")
	cmd.Register(commander)
	var known []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		known = append(known, c.Name())
	})

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, line := range consoleLines(t, file) {
				fields := strings.Fields(strings.TrimPrefix(line, "$ "))
				if len(fields) < 2 || fields[0] != "coinvest" {
					t.Errorf("%s: %q is not a coinvest command", file, line)
					continue
				}
				if !slices.Contains(known, fields[1]) {
					t.Errorf("%s: unknown command %q", file, fields[1])
				}
			}
		})
	}
}

// consoleLines returns the lines of the "console" fenced blocks of 'file'.
func consoleLines(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var lines []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || string(fcb.Language(content)) != "console" {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			lines = append(lines, strings.TrimSpace(string(line.Value(content))))
		}
		return ast.WalkContinue, nil
	})
	return lines
}
