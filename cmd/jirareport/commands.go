package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmcleish/jirareport/internal/archive"
	"github.com/dmcleish/jirareport/internal/cli"
	"github.com/dmcleish/jirareport/internal/jira"
	"github.com/dmcleish/jirareport/internal/ticket"
)

var reportsCmd = &cobra.Command{
	Use:   "reports [PROJECT]",
	Short: "List previously generated reports",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectKey := ""
		if len(args) > 0 {
			projectKey = strings.ToUpper(args[0])
		}

		arc := archive.New(cfg.Reports.DataDir)
		entries, err := arc.List(projectKey)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(cli.Dimmed("No reports found."))
			return nil
		}

		fmt.Printf("%s Reports (%d):\n", cli.GlyphArchive, len(entries))
		for i, e := range entries {
			fmt.Printf("  %2d. [%s] %s (%.1fKB - %s)\n",
				i+1, e.Project, e.Filename, float64(e.Size)/1024, e.Modified.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects [TERM]",
	Short: "List available Jira projects, optionally filtered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if missing := cfg.Validate(); len(missing) > 0 {
			cli.Failf("Missing required environment variables: %s", strings.Join(missing, ", "))
			return nil
		}

		source := jira.NewClient(cfg.Jira)
		projects, err := source.Projects(cmd.Context())
		if err != nil {
			cli.Failf("Error fetching projects: %v", err)
			return nil
		}

		if len(args) > 0 {
			projects = ticket.SearchProjects(projects, args[0])
		}
		if len(projects) == 0 {
			fmt.Println(cli.Dimmed("No matching projects."))
			return nil
		}

		fmt.Printf("%s Found %d projects:\n", cli.GlyphList, len(projects))
		for _, p := range projects {
			fmt.Printf("  %-12s %-40s %s\n", p.Key, truncate(p.Name, 40), cli.GrayText(p.Type))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
