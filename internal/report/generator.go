// Package report folds ticket records into summary counters and renders the
// plain-text unfinished-tickets report, optionally appending an analysis
// block produced by an external text-generation service.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmcleish/jirareport/internal/logging"
	"github.com/dmcleish/jirareport/internal/ticket"
)

// NoTickets is the whole report when there is nothing to report on.
const NoTickets = "No unfinished tickets found."

// rule is the heading delimiter width used throughout the report.
const rule = 50

// excerptCap bounds both the high-priority excerpt and the project table.
const excerptCap = 10

// summaryWidth is where ticket summaries are cut in the excerpt.
const summaryWidth = 60

// Analyzer produces a narrative analysis of a rendered report and a bounded
// sample of the raw tickets behind it. Implementations are best-effort: the
// generator treats any error as "no analysis".
type Analyzer interface {
	Analyze(ctx context.Context, reportText string, sample []ticket.Ticket) (string, error)
}

// Stats holds the frequency tables computed from one ticket list.
type Stats struct {
	Total        int
	ByStatus     map[string]int
	ByPriority   map[string]int
	ByProject    map[string]int
	HighPriority []ticket.Ticket // Highest/High only, input order, capped
}

// Tally computes all counters in a single pass.
func Tally(tickets []ticket.Ticket) Stats {
	s := Stats{
		Total:      len(tickets),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
		ByProject:  make(map[string]int),
	}
	for _, t := range tickets {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Priority]++
		s.ByProject[t.Project]++
		if (t.Priority == "Highest" || t.Priority == "High") && len(s.HighPriority) < excerptCap {
			s.HighPriority = append(s.HighPriority, t)
		}
	}
	return s
}

// Generator renders reports. A nil Analyzer disables augmentation.
type Generator struct {
	Analyzer   Analyzer
	SampleSize int // raw tickets passed to the analyzer, default 20
}

// Generate renders the report for the given tickets. Augmentation failures
// are logged and swallowed; the base report is always returned intact.
func (g *Generator) Generate(ctx context.Context, tickets []ticket.Ticket) string {
	if len(tickets) == 0 {
		return NoTickets
	}

	base := render(Tally(tickets))
	if g.Analyzer == nil {
		return base
	}

	sampleSize := g.SampleSize
	if sampleSize <= 0 {
		sampleSize = 20
	}
	if sampleSize > len(tickets) {
		sampleSize = len(tickets)
	}

	analysis, err := g.Analyzer.Analyze(ctx, base, tickets[:sampleSize])
	if err != nil {
		logging.Warn("analysis failed, keeping base report", "error", err)
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n🤖 AI ANALYSIS:\n")
	b.WriteString(strings.Repeat("=", rule))
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(analysis))
	b.WriteString("\n")
	return b.String()
}

func render(s Stats) string {
	var b strings.Builder

	b.WriteString("📋 JIRA UNFINISHED TICKETS REPORT\n")
	b.WriteString(strings.Repeat("=", rule))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total Unfinished Tickets: %d\n", s.Total)

	b.WriteString("\nSUMMARY BY STATUS:\n")
	for _, status := range sortedKeys(s.ByStatus) {
		fmt.Fprintf(&b, "  • %s: %d tickets\n", status, s.ByStatus[status])
	}

	b.WriteString("\nSUMMARY BY PRIORITY:\n")
	for _, row := range byCount(s.ByPriority, len(s.ByPriority)) {
		fmt.Fprintf(&b, "  • %s: %d tickets\n", row.name, row.count)
	}

	b.WriteString("\nSUMMARY BY PROJECT:\n")
	for _, row := range byCount(s.ByProject, excerptCap) {
		fmt.Fprintf(&b, "  • %s: %d tickets\n", row.name, row.count)
	}

	b.WriteString("\nHIGHEST PRIORITY TICKETS:\n")
	for _, t := range s.HighPriority {
		fmt.Fprintf(&b, "  • %s: %s...\n", t.Key, truncate(t.Summary, summaryWidth))
		fmt.Fprintf(&b, "    Status: %s | Assignee: %s | Project: %s\n\n", t.Status, t.Assignee, t.Project)
	}

	return b.String()
}

type countRow struct {
	name  string
	count int
}

// byCount orders a frequency table by count descending, name ascending on
// ties, keeping at most limit rows.
func byCount(table map[string]int, limit int) []countRow {
	rows := make([]countRow, 0, len(table))
	for name, count := range table {
		rows = append(rows, countRow{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func sortedKeys(table map[string]int) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
