// Package jira is a minimal Jira REST client scoped to what the report
// pipeline needs: a connection check, one JQL search, and the project
// directory. Authentication uses a personal access token as a bearer header.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmcleish/jirareport/internal/config"
	"github.com/dmcleish/jirareport/internal/ticket"
)

// unfinishedJQL selects every ticket that still needs work.
const unfinishedJQL = "status NOT IN (Done, Closed, Resolved)"

// searchFields is the field list requested from the search endpoint.
const searchFields = "summary,status,priority,assignee,project,created"

// Client talks to one Jira instance.
type Client struct {
	baseURL string
	token   string
	limit   int
	http    *http.Client
}

// NewClient builds a client from the Jira section of the config.
func NewClient(cfg config.JiraConfig) *Client {
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = 50
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		limit:   limit,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Connect verifies the base URL and token by fetching server info. It
// returns the server title for display.
func (c *Client) Connect(ctx context.Context) (string, error) {
	var info serverInfo
	if err := c.get(ctx, "/rest/api/2/serverInfo", nil, &info); err != nil {
		return "", err
	}
	if info.ServerTitle == "" {
		return "Unknown", nil
	}
	return info.ServerTitle, nil
}

// Unfinished returns up to the configured limit of tickets whose status is
// not Done, Closed, or Resolved, ordered by priority then creation time
// descending. An empty projectKey searches all projects.
func (c *Client) Unfinished(ctx context.Context, projectKey string) ([]ticket.Ticket, error) {
	query := url.Values{}
	query.Set("jql", buildJQL(projectKey))
	query.Set("maxResults", strconv.Itoa(c.limit))
	query.Set("fields", searchFields)

	var resp searchResponse
	if err := c.get(ctx, "/rest/api/2/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search tickets: %w", err)
	}

	tickets := make([]ticket.Ticket, 0, len(resp.Issues))
	for _, iss := range resp.Issues {
		tickets = append(tickets, normalize(iss))
	}
	return tickets, nil
}

// Projects returns the full project directory.
func (c *Client) Projects(ctx context.Context) ([]ticket.Project, error) {
	var entries []projectEntry
	if err := c.get(ctx, "/rest/api/2/project", nil, &entries); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]ticket.Project, 0, len(entries))
	for _, e := range entries {
		p := ticket.Project{Key: e.Key, Name: e.Name, Type: e.ProjectTypeKey}
		if p.Type == "" {
			p.Type = "Unknown"
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// buildJQL assembles the unfinished-ticket query, optionally scoped to one
// project.
func buildJQL(projectKey string) string {
	jql := unfinishedJQL
	if projectKey != "" {
		jql = fmt.Sprintf("project = %s AND %s", projectKey, jql)
	}
	return jql + " ORDER BY priority DESC, created DESC"
}

// normalize maps a wire issue onto a ticket record, substituting the
// documented defaults for anything the tracker left out.
func normalize(iss issue) ticket.Ticket {
	t := ticket.Ticket{
		Key:      iss.Key,
		Summary:  iss.Fields.Summary,
		Status:   "Unknown",
		Priority: "None",
		Assignee: "Unassigned",
		Project:  "Unknown",
		Created:  "Unknown",
	}
	if t.Key == "" {
		t.Key = "N/A"
	}
	if t.Summary == "" {
		t.Summary = "No summary"
	}
	if iss.Fields.Status != nil && iss.Fields.Status.Name != "" {
		t.Status = iss.Fields.Status.Name
	}
	if iss.Fields.Priority != nil && iss.Fields.Priority.Name != "" {
		t.Priority = iss.Fields.Priority.Name
	}
	if iss.Fields.Assignee != nil && iss.Fields.Assignee.DisplayName != "" {
		t.Assignee = iss.Fields.Assignee.DisplayName
	}
	if iss.Fields.Project != nil && iss.Fields.Project.Key != "" {
		t.Project = iss.Fields.Project.Key
	}
	if created := iss.Fields.Created; created != "" {
		// Keep the date part only.
		if len(created) > 10 {
			created = created[:10]
		}
		t.Created = created
	}
	return t
}

// get issues one authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jira API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
