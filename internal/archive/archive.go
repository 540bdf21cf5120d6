// Package archive owns the on-disk layout of generated reports: the
// project-scoped directory tree, the timestamped file names, and the
// read-only listing of previous reports.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	reportsDirName = "reports"
	filePrefix     = "jira_"
	fileSuffix     = ".txt"
	timeLayout     = "20060102_150405"
)

// Entry describes one previously generated report. Entries are computed by
// scanning the filesystem on demand and are never cached.
type Entry struct {
	Filename string // relative display name, e.g. "ab/jira_report_20260826_101500.txt"
	Path     string
	Modified time.Time
	Size     int64
	Project  string // project key, or "ALL" for shared reports
}

// Archive manages reports under one data directory.
type Archive struct {
	DataDir string
}

// New returns an archive rooted at dataDir.
func New(dataDir string) *Archive {
	return &Archive{DataDir: dataDir}
}

// reportsDir is the shared top-level reports directory.
func (a *Archive) reportsDir() string {
	return filepath.Join(a.DataDir, reportsDirName)
}

// ReportPath creates the directory for the given project (empty key means
// the shared all-projects directory) and returns the timestamped file path
// for a new report.
func (a *Archive) ReportPath(projectKey string, now time.Time) (string, error) {
	dir := a.reportsDir()
	name := fmt.Sprintf("jira_all_projects_report_%s%s", now.Format(timeLayout), fileSuffix)
	if projectKey != "" {
		dir = filepath.Join(dir, strings.ToLower(projectKey))
		name = fmt.Sprintf("jira_report_%s%s", now.Format(timeLayout), fileSuffix)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// Write stores a finished report as plain UTF-8 text.
func (a *Archive) Write(path, report string) error {
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// List returns previous reports sorted by modification time, newest first.
// With a project key, it covers that project's subdirectory plus the shared
// top-level reports; without one, it covers the top level plus one level
// into every project subdirectory. Missing directories yield an empty list.
func (a *Archive) List(projectKey string) ([]Entry, error) {
	root := a.reportsDir()
	items, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry

	if projectKey != "" {
		sub := strings.ToLower(projectKey)
		subEntries, err := a.listDir(filepath.Join(root, sub), sub, strings.ToUpper(projectKey))
		if err != nil {
			return nil, err
		}
		entries = append(entries, subEntries...)
	}

	for _, item := range items {
		path := filepath.Join(root, item.Name())
		if !item.IsDir() {
			if e, ok := a.entryFor(path, item.Name(), "ALL"); ok {
				entries = append(entries, e)
			}
			continue
		}
		if projectKey == "" {
			subEntries, err := a.listDir(path, item.Name(), strings.ToUpper(item.Name()))
			if err != nil {
				return nil, err
			}
			entries = append(entries, subEntries...)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}

// listDir collects report files from one project subdirectory.
func (a *Archive) listDir(dir, prefix, project string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		e, ok := a.entryFor(filepath.Join(dir, item.Name()), prefix+"/"+item.Name(), project)
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (a *Archive) entryFor(path, display, project string) (Entry, bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
		return Entry{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Filename: display,
		Path:     path,
		Modified: info.ModTime(),
		Size:     info.Size(),
		Project:  project,
	}, true
}
