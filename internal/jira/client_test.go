package jira

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmcleish/jirareport/internal/config"
)

func TestBuildJQL(t *testing.T) {
	tests := []struct {
		name       string
		projectKey string
		want       string
	}{
		{
			name:       "all projects",
			projectKey: "",
			want:       "status NOT IN (Done, Closed, Resolved) ORDER BY priority DESC, created DESC",
		},
		{
			name:       "scoped to project",
			projectKey: "AB",
			want:       "project = AB AND status NOT IN (Done, Closed, Resolved) ORDER BY priority DESC, created DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildJQL(tt.projectKey); got != tt.want {
				t.Errorf("buildJQL(%q) = %q, want %q", tt.projectKey, got, tt.want)
			}
		})
	}
}

func TestUnfinished(t *testing.T) {
	const payload = `{
		"startAt": 0, "maxResults": 50, "total": 2,
		"issues": [
			{
				"key": "AB-1",
				"fields": {
					"summary": "Fix login",
					"status": {"name": "Open"},
					"priority": {"name": "Highest"},
					"assignee": {"displayName": "Ada"},
					"project": {"key": "AB"},
					"created": "2026-08-01T09:30:00.000+0000"
				}
			},
			{
				"key": "AB-2",
				"fields": {
					"summary": "",
					"status": null,
					"priority": null,
					"assignee": null,
					"project": null,
					"created": ""
				}
			}
		]
	}`

	var gotJQL, gotAuth, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotJQL = r.URL.Query().Get("jql")
		gotMax = r.URL.Query().Get("maxResults")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := NewClient(config.JiraConfig{URL: srv.URL + "/", Token: "pat-token", ResultLimit: 25})

	tickets, err := client.Unfinished(context.Background(), "AB")
	if err != nil {
		t.Fatalf("Unfinished: %v", err)
	}

	if gotAuth != "Bearer pat-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotMax != "25" {
		t.Errorf("maxResults = %q", gotMax)
	}
	if want := buildJQL("AB"); gotJQL != want {
		t.Errorf("jql = %q, want %q", gotJQL, want)
	}

	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}

	first := tickets[0]
	if first.Key != "AB-1" || first.Status != "Open" || first.Priority != "Highest" ||
		first.Assignee != "Ada" || first.Project != "AB" {
		t.Errorf("unexpected first ticket: %+v", first)
	}
	if first.Created != "2026-08-01" {
		t.Errorf("created should keep the date part only, got %q", first.Created)
	}

	second := tickets[1]
	if second.Summary != "No summary" || second.Status != "Unknown" ||
		second.Priority != "None" || second.Assignee != "Unassigned" ||
		second.Project != "Unknown" || second.Created != "Unknown" {
		t.Errorf("missing fields should degrade to defaults, got %+v", second)
	}
}

func TestUnfinishedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad jql", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(config.JiraConfig{URL: srv.URL, Token: "t"})
	if _, err := client.Unfinished(context.Background(), ""); err == nil {
		t.Fatal("expected error on 400 response")
	}
}

func TestConnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/serverInfo" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"serverTitle": "Engineering JIRA", "version": "9.4.0"}`))
	}))
	defer srv.Close()

	client := NewClient(config.JiraConfig{URL: srv.URL, Token: "t"})
	title, err := client.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if title != "Engineering JIRA" {
		t.Errorf("title = %q", title)
	}
}

func TestProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/project" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"key": "AB", "name": "Alpha Team", "projectTypeKey": "software"},
			{"key": "CD", "name": "Core Data", "projectTypeKey": ""}
		]`))
	}))
	defer srv.Close()

	client := NewClient(config.JiraConfig{URL: srv.URL, Token: "t"})
	projects, err := client.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	if projects[0].Key != "AB" || projects[0].Name != "Alpha Team" || projects[0].Type != "software" {
		t.Errorf("unexpected first project: %+v", projects[0])
	}
	if projects[1].Type != "Unknown" {
		t.Errorf("empty project type should default to Unknown, got %q", projects[1].Type)
	}
}
