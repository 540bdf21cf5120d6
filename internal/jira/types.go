package jira

// Wire types for the Jira REST API (v2). Only the fields the report needs
// are decoded; everything else in the payload is ignored.

type serverInfo struct {
	ServerTitle string `json:"serverTitle"`
	Version     string `json:"version"`
}

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []issue `json:"issues"`
}

type issue struct {
	Key    string `json:"key"`
	Fields fields `json:"fields"`
}

type fields struct {
	Summary  string      `json:"summary"`
	Status   *named      `json:"status"`
	Priority *named      `json:"priority"`
	Assignee *user       `json:"assignee"`
	Project  *projectRef `json:"project"`
	Created  string      `json:"created"`
}

type named struct {
	Name string `json:"name"`
}

type user struct {
	DisplayName string `json:"displayName"`
}

type projectRef struct {
	Key string `json:"key"`
}

type projectEntry struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	ProjectTypeKey string `json:"projectTypeKey"`
}
