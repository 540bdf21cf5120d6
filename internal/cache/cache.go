// Package cache persists the last-used project selection between runs so
// repeat users can skip the interactive picker. The cache is best-effort:
// callers log failures and carry on with an empty cache.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the cache file under the data directory.
const FileName = "jira_project_cache.json"

// maxRecent bounds the recent-projects list.
const maxRecent = 5

// state is the on-disk schema.
type state struct {
	LastProject    string   `json:"last_project"`
	RecentProjects []string `json:"recent_projects"`
	LastUpdated    string   `json:"last_updated"`
}

// Store reads and writes one preference cache file.
type Store struct {
	Path string
}

// NewStore places the cache file under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{Path: filepath.Join(dataDir, FileName)}
}

// Load returns the last selected project and the recent-projects list. A
// missing file yields empty values and no error; a corrupt file yields empty
// values and the parse error, so the caller can warn and continue.
func (s *Store) Load() (last string, recent []string, err error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, err
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return "", nil, fmt.Errorf("parse project cache: %w", err)
	}
	return st.LastProject, st.RecentProjects, nil
}

// Save records the selection. When projectKey is a real project (non-empty
// and not the "ALL" sentinel) it moves to the front of the recent list,
// deduplicated and truncated to five entries. The sentinel and the empty key
// still update last_project but never enter the list.
func (s *Store) Save(projectKey string, recent []string) error {
	if projectKey != "" && projectKey != "ALL" {
		recent = promote(recent, projectKey)
	}

	st := state{
		LastProject:    projectKey,
		RecentProjects: recent,
		LastUpdated:    time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write project cache: %w", err)
	}
	return nil
}

// promote moves key to the front of recent, removing any prior occurrence
// and capping the list.
func promote(recent []string, key string) []string {
	out := make([]string, 0, len(recent)+1)
	out = append(out, key)
	for _, r := range recent {
		if r != key {
			out = append(out, r)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	return out
}
