// Package ticket defines the normalized records the report pipeline works
// with and the interface for fetching them from an issue tracker.
package ticket

import (
	"context"
	"strings"
)

// Ticket is a single unfinished issue, normalized from the tracker's wire
// format. Fields are never empty: missing values are replaced with the
// documented defaults at decode time.
type Ticket struct {
	Key      string `json:"key"`      // e.g. "AB-123"
	Summary  string `json:"summary"`  // "No summary" when absent
	Status   string `json:"status"`   // "Unknown" when absent
	Priority string `json:"priority"` // "None" when absent
	Assignee string `json:"assignee"` // "Unassigned" when absent
	Project  string `json:"project"`  // project key, "Unknown" when absent
	Created  string `json:"created"`  // date part only, "Unknown" when absent
}

// Project is an entry from the tracker's project directory.
type Project struct {
	Key  string
	Name string
	Type string
}

// Source fetches tickets and projects from a tracker. The Jira client
// implements it; tests substitute their own.
type Source interface {
	// Unfinished returns tickets whose status is not Done, Closed, or
	// Resolved, optionally restricted to one project key. An empty
	// projectKey means all projects.
	Unfinished(ctx context.Context, projectKey string) ([]Ticket, error)

	// Projects returns the full project directory.
	Projects(ctx context.Context) ([]Project, error)
}

// SearchProjects filters projects by a case-insensitive term. A project
// matches when the term is a substring of its key or name, a prefix of its
// key, or a prefix of any whitespace-delimited word in its name. An empty
// term returns the input unchanged.
func SearchProjects(projects []Project, term string) []Project {
	if term == "" {
		return projects
	}

	term = strings.ToLower(term)
	var matches []Project

	for _, p := range projects {
		key := strings.ToLower(p.Key)
		name := strings.ToLower(p.Name)

		if strings.Contains(key, term) || strings.Contains(name, term) || strings.HasPrefix(key, term) {
			matches = append(matches, p)
			continue
		}
		for _, word := range strings.Fields(name) {
			if strings.HasPrefix(word, term) {
				matches = append(matches, p)
				break
			}
		}
	}

	return matches
}
