// Package selector implements the interactive project picker: a blocking,
// line-oriented prompt loop over the project directory, plus the quick menu
// over cached selections.
package selector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmcleish/jirareport/internal/cli"
	"github.com/dmcleish/jirareport/internal/ticket"
)

// All is the sentinel returned when the user asks for every project.
const All = "ALL"

// defaultPageSize caps how many matches one listing shows.
const defaultPageSize = 20

// Selector drives the prompt loop. The caller wires it to the terminal;
// tests substitute buffers. One buffered reader is shared across calls so
// typed-ahead input is not dropped between menus.
type Selector struct {
	in       *bufio.Reader
	Out      io.Writer
	PageSize int
}

// New returns a selector reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), Out: out, PageSize: defaultPageSize}
}

// Pick runs the search-then-list loop over the project directory. It returns
// the chosen project key, the All sentinel, or ok=false when the user aborts
// (blank choice or end of input).
func (s *Selector) Pick(projects []ticket.Project) (string, bool) {
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	fmt.Fprintf(s.Out, "\n%s Project Selection\n%s\n", cli.GlyphSearch, strings.Repeat("=", 30))

	for {
		// SEARCHING: prompt for a term; empty shows the first page.
		fmt.Fprintf(s.Out, "\nEnter project name or key to search (or press Enter to see all): ")
		term, err := readLine(s.in)
		if err != nil {
			return "", false
		}

		matches := projects
		if term != "" {
			matches = ticket.SearchProjects(projects, term)
			if len(matches) == 0 {
				fmt.Fprintf(s.Out, "%s No projects found matching '%s'\n", cli.GlyphFail, term)
				fmt.Fprintf(s.Out, "%s Try a different search term or press Enter to see all projects\n", cli.GlyphHint)
				continue
			}
		}

		fmt.Fprintf(s.Out, "\n%s Found %d matching projects:\n", cli.GlyphList, len(matches))
		if len(matches) > pageSize {
			fmt.Fprintf(s.Out, "   (Showing first %d results)\n", pageSize)
			matches = matches[:pageSize]
		}

		for i, p := range matches {
			fmt.Fprintf(s.Out, "  %2d. %-12s - %s\n", i+1, p.Key, truncate(p.Name, 50))
		}

		// LISTING: loop until a terminal choice or a return to SEARCHING.
		key, next, ok := s.listLoop(matches)
		if next {
			continue
		}
		return key, ok
	}
}

// listLoop handles choices against one page of matches. It returns
// next=true to go back to searching, otherwise (key, false, ok) is the
// terminal outcome.
func (s *Selector) listLoop(matches []ticket.Project) (key string, next bool, ok bool) {
	for {
		fmt.Fprintf(s.Out, "\n%s Options:\n", cli.GlyphHint)
		fmt.Fprintf(s.Out, "   • Enter number (1-%d) to select a project\n", len(matches))
		fmt.Fprintf(s.Out, "   • Enter 'all' to analyze all projects\n")
		fmt.Fprintf(s.Out, "   • Enter 'search' to search again\n")
		fmt.Fprintf(s.Out, "   • Press Enter to quit\n")
		fmt.Fprintf(s.Out, "\nYour choice: ")

		choice, err := readLine(s.in)
		if err != nil {
			return "", false, false
		}
		choice = strings.ToLower(choice)

		switch choice {
		case "":
			return "", false, false
		case "all":
			return All, false, true
		case "search":
			return "", true, false
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintf(s.Out, "%s Invalid input. Please enter a number, 'all', 'search', or press Enter to quit\n", cli.GlyphFail)
			continue
		}
		if n < 1 || n > len(matches) {
			fmt.Fprintf(s.Out, "%s Invalid choice. Please enter a number between 1 and %d\n", cli.GlyphFail, len(matches))
			continue
		}

		selected := matches[n-1]
		fmt.Fprintf(s.Out, "%s Selected: %s - %s\n", cli.GlyphOK, selected.Key, selected.Name)
		return selected.Key, false, true
	}
}

// PickCached offers the previously used projects as a numbered shortcut.
// ok=false means the user wants the full search instead.
func (s *Selector) PickCached(last string, recent []string) (string, bool) {
	options := cachedOptions(last, recent)
	if len(options) == 0 {
		return "", false
	}

	fmt.Fprintf(s.Out, "\n%s Recent Project Selections:\n", cli.GlyphArchive)
	for i, opt := range options {
		if i == 0 && opt == last {
			fmt.Fprintf(s.Out, "  %d. %s (last used)\n", i+1, opt)
		} else {
			fmt.Fprintf(s.Out, "  %d. %s\n", i+1, opt)
		}
	}
	fmt.Fprintf(s.Out, "\nUse cached project? Enter number (1-%d) or press Enter to search: ", len(options))

	choice, err := readLine(s.in)
	if err != nil {
		return "", false
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(options) {
		return "", false
	}
	return options[n-1], true
}

// cachedOptions builds the quick-menu list: last project first, then up to
// four distinct recents.
func cachedOptions(last string, recent []string) []string {
	var options []string
	if last != "" && last != All {
		options = append(options, last)
	}
	for _, r := range recent {
		if r != last && len(options) < maxCachedOptions {
			options = append(options, r)
		}
	}
	return options
}

const maxCachedOptions = 5

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
