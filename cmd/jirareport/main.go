// Command jirareport queries a Jira instance for unfinished tickets,
// aggregates them into a plain-text report, optionally appends an analysis
// from a local Ollama model, and archives the report under the data
// directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmcleish/jirareport/internal/archive"
	"github.com/dmcleish/jirareport/internal/cache"
	"github.com/dmcleish/jirareport/internal/cli"
	"github.com/dmcleish/jirareport/internal/config"
	"github.com/dmcleish/jirareport/internal/jira"
	"github.com/dmcleish/jirareport/internal/logging"
	"github.com/dmcleish/jirareport/internal/ollama"
	"github.com/dmcleish/jirareport/internal/report"
	"github.com/dmcleish/jirareport/internal/selector"
	"github.com/dmcleish/jirareport/internal/ticket"
)

var cfg *config.Config

var (
	flagConfig string
	flagNoAI   bool
	flagLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "jirareport [PROJECT]",
	Short: "Generate a report of unfinished Jira tickets",
	Long: `jirareport queries Jira for every ticket whose status is not Done,
Closed, or Resolved, and writes a summary report to ./data/reports.

With a PROJECT argument the report covers that project only; without one,
the last-used project can be reused from the cache or picked interactively.
When a local Ollama server is reachable, a short AI analysis is appended.

Examples:
  jirareport              # interactive or cached project selection
  jirareport AB           # report on project AB
  jirareport --no-ai AB   # skip the Ollama analysis
  jirareport reports      # list previously generated reports`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		path := flagConfig
		if path == "" {
			path = config.DefaultConfigPath()
		}
		cfg, err = config.LoadFile(path)
		if err != nil {
			return err
		}
		if flagLimit > 0 {
			cfg.Jira.ResultLimit = flagLimit
		}
		return logging.Init(logging.Config{
			Level:     logging.ParseLevel(cfg.Log.Level),
			SentryDSN: cfg.Log.SentryDSN,
			Env:       "production",
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		projectArg := ""
		if len(args) > 0 {
			projectArg = strings.ToUpper(args[0])
		}
		return runReport(cmd.Context(), projectArg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&flagNoAI, "no-ai", false, "skip the Ollama analysis step")
	rootCmd.Flags().IntVar(&flagLimit, "limit", 0, "override the ticket result cap")
	rootCmd.AddCommand(reportsCmd, projectsCmd)
}

func main() {
	defer logging.Flush(2 * time.Second)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runReport is the whole pipeline: resolve a project, fetch its unfinished
// tickets, render the report, archive it. Every handled condition returns
// nil; the process distinguishes nothing beyond its console messages.
func runReport(ctx context.Context, projectArg string) error {
	log := logging.With("run_id", uuid.NewString())

	fmt.Println(cli.GlyphTarget + " JIRA Unfinished Tickets Report Generator")
	fmt.Println(strings.Repeat("=", 50))

	arc := archive.New(cfg.Reports.DataDir)
	showPreviousReports(arc)

	if missing := cfg.Validate(); len(missing) > 0 {
		cli.Failf("Missing required environment variables:")
		for _, v := range missing {
			fmt.Printf("   - %s\n", v)
		}
		return nil
	}

	source := jira.NewClient(cfg.Jira)

	cli.Statusf(cli.GlyphLink, "Connecting to JIRA: %s", cfg.Jira.URL)
	title, err := source.Connect(ctx)
	if err != nil {
		log.Error("jira connection failed", "error", err)
		cli.Failf("JIRA connection failed: %v", err)
		cli.Failf("Cannot proceed without JIRA connection")
		return nil
	}
	cli.Okf("Connected to JIRA: %s", title)

	projectKey, ok := resolveProject(ctx, log, source, projectArg)
	if !ok {
		cli.Statusf(cli.GlyphWave, "Goodbye!")
		return nil
	}

	tickets, ok := fetchTickets(ctx, log, source, projectKey)
	if !ok {
		return nil
	}
	if len(tickets) == 0 {
		if projectKey != "" {
			cli.Okf("No unfinished tickets found in project %s!", projectKey)
		} else {
			cli.Okf("No unfinished tickets found!")
		}
		return nil
	}

	cli.Statusf(cli.GlyphWrite, "Generating report...")
	gen := &report.Generator{
		Analyzer:   setupAnalyzer(ctx, log),
		SampleSize: cfg.Reports.SampleSize,
	}
	text := gen.Generate(ctx, tickets)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(text)
	fmt.Println(strings.Repeat("=", 60))

	path, err := arc.ReportPath(projectKey, time.Now())
	if err == nil {
		err = arc.Write(path, text)
	}
	if err != nil {
		log.Error("report write failed", "error", err)
		cli.Failf("Could not save report: %v", err)
		return nil
	}

	cli.Statusf(cli.GlyphSave, "Report saved to: %s", path)
	cli.Okf("Report generation completed!")
	return nil
}

// showPreviousReports lists up to five earlier reports for reference.
func showPreviousReports(arc *archive.Archive) {
	previous, err := arc.List("")
	if err != nil {
		logging.Warn("could not list previous reports", "error", err)
		return
	}
	if len(previous) == 0 {
		return
	}

	fmt.Printf("\n%s Previous Reports (found %d reports):\n", cli.GlyphArchive, len(previous))
	shown := previous
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, r := range shown {
		fmt.Printf("  %d. [%s] %s (%.1fKB - %s)\n",
			i+1, r.Project, r.Filename, float64(r.Size)/1024, r.Modified.Format("2006-01-02 15:04:05"))
	}
	if len(previous) > 5 {
		fmt.Printf("  ... and %d more reports in ./%s/reports/\n", len(previous)-5, cfg.Reports.DataDir)
	}
	fmt.Println()
}

// resolveProject turns the CLI argument, the preference cache, or an
// interactive selection into a project key. An empty key means all projects;
// ok=false means the user aborted.
func resolveProject(ctx context.Context, log *slog.Logger, source ticket.Source, projectArg string) (string, bool) {
	if projectArg != "" {
		cli.Statusf(cli.GlyphTarget, "Targeting project: %s", projectArg)
		return projectArg, true
	}

	store := cache.NewStore(cfg.Reports.DataDir)
	last, recent, err := store.Load()
	if err != nil {
		log.Warn("could not load project cache", "error", err)
		cli.Warnf("Could not load project cache: %v", err)
	}

	sel := selector.New(os.Stdin, os.Stdout)

	projectKey, picked := sel.PickCached(last, recent)
	if picked {
		cli.Statusf(cli.GlyphTarget, "Using cached project: %s", projectKey)
	} else {
		projects, err := source.Projects(ctx)
		if err != nil || len(projects) == 0 {
			log.Error("could not fetch projects", "error", err)
			cli.Failf("Could not fetch projects")
			return "", false
		}
		cli.Statusf(cli.GlyphList, "Found %d total projects", len(projects))

		choice, ok := sel.Pick(projects)
		if !ok {
			return "", false
		}
		if choice == selector.All {
			projectKey = ""
			cli.Statusf(cli.GlyphTarget, "Analyzing all projects")
		} else {
			projectKey = choice
			cli.Statusf(cli.GlyphTarget, "Selected project: %s", projectKey)
		}
	}

	// Cache writing is best-effort; a failure never aborts the run.
	if err := store.Save(projectKey, recent); err != nil {
		log.Warn("could not save project cache", "error", err)
		cli.Warnf("Could not save project cache: %v", err)
	}

	return projectKey, true
}

// fetchTickets queries the tracker, reporting progress on the console.
func fetchTickets(ctx context.Context, log *slog.Logger, source ticket.Source, projectKey string) ([]ticket.Ticket, bool) {
	if projectKey != "" {
		cli.Statusf(cli.GlyphSearch, "Searching for unfinished tickets in project %s...", projectKey)
	} else {
		cli.Statusf(cli.GlyphSearch, "Searching for unfinished tickets across all projects...")
	}

	tickets, err := source.Unfinished(ctx, projectKey)
	if err != nil {
		log.Error("ticket query failed", "error", err)
		cli.Failf("Error fetching tickets: %v", err)
		return nil, false
	}

	if projectKey != "" {
		cli.Statusf(cli.GlyphStats, "Found %d unfinished tickets in %s", len(tickets), projectKey)
	} else {
		cli.Statusf(cli.GlyphStats, "Found %d unfinished tickets across all projects", len(tickets))
	}
	return tickets, true
}

// setupAnalyzer probes the Ollama endpoint and returns an Analyzer when it
// is usable, nil otherwise. Augmentation is always optional.
func setupAnalyzer(ctx context.Context, log *slog.Logger) report.Analyzer {
	if flagNoAI {
		return nil
	}

	client := ollama.NewClient(
		ollama.WithBaseURL(cfg.Ollama.BaseURL),
		ollama.WithModel(cfg.Ollama.Model),
	)

	cli.Statusf(cli.GlyphRobot, "Setting up Ollama: %s at %s", client.Model(), client.BaseURL())
	if err := client.Ping(ctx); err != nil {
		log.Warn("ollama unavailable, augmentation disabled", "error", err)
		cli.Failf("Ollama setup failed: %v", err)
		cli.Hintf("Make sure Ollama is running: ollama serve")
		cli.Hintf("And the model is available: ollama pull %s", client.Model())
		return nil
	}
	cli.Okf("Ollama connected")
	return client
}
