// Package github implements the tracker port over the GitHub REST API
// (classic repository projects and issues).
package github

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v56/github"

	"github.com/example/retrobot/internal/ports/secondary"
)

const pageSize = 100

// Config holds connection settings for the tracker.
type Config struct {
	Token   string
	Owner   string
	Repo    string
	APIURL  string // API root for GitHub Enterprise, empty for github.com
	Timeout time.Duration
}

// Tracker implements secondary.Tracker for one repository.
type Tracker struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewTracker creates a Tracker for cfg.Owner/cfg.Repo.
func NewTracker(cfg Config) (*Tracker, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := gh.NewClient(&http.Client{Timeout: timeout})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = base
	}

	return &Tracker{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
	}, nil
}

// ListBoards yields the repository's projects, open and closed, one page at a time.
// The next page is only requested once the caller has consumed the current one.
func (t *Tracker) ListBoards(ctx context.Context) iter.Seq2[[]*secondary.BoardRecord, error] {
	return func(yield func([]*secondary.BoardRecord, error) bool) {
		opts := &gh.ProjectListOptions{
			State:       "all",
			ListOptions: gh.ListOptions{PerPage: pageSize},
		}
		for {
			projects, resp, err := t.client.Repositories.ListProjects(ctx, t.owner, t.repo, opts)
			if err != nil {
				yield(nil, callError("list projects", err))
				return
			}

			page := make([]*secondary.BoardRecord, 0, len(projects))
			for _, p := range projects {
				page = append(page, toBoardRecord(p))
			}
			if !yield(page, nil) {
				return
			}

			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// CreateBoard creates a repository project.
func (t *Tracker) CreateBoard(ctx context.Context, name, body string) (*secondary.BoardRef, error) {
	project, _, err := t.client.Repositories.CreateProject(ctx, t.owner, t.repo, &gh.ProjectOptions{
		Name: gh.String(name),
		Body: gh.String(body),
	})
	if err != nil {
		return nil, callError("create project", err)
	}
	return &secondary.BoardRef{ID: project.GetID(), URL: project.GetHTMLURL()}, nil
}

// UpdateBoard changes a project's body and/or state.
func (t *Tracker) UpdateBoard(ctx context.Context, id int64, update secondary.BoardUpdate) error {
	_, _, err := t.client.Projects.UpdateProject(ctx, id, &gh.ProjectOptions{
		Body:  update.Body,
		State: update.State,
	})
	if err != nil {
		return callError(fmt.Sprintf("update project %d", id), err)
	}
	return nil
}

// CreateColumn adds a column to a project.
func (t *Tracker) CreateColumn(ctx context.Context, boardID int64, name string) (int64, error) {
	column, _, err := t.client.Projects.CreateProjectColumn(ctx, boardID, &gh.ProjectColumnOptions{Name: name})
	if err != nil {
		return 0, callError(fmt.Sprintf("create column %q", name), err)
	}
	return column.GetID(), nil
}

// CreateCard adds a note card to a column. GitHub inserts it at the top.
func (t *Tracker) CreateCard(ctx context.Context, columnID int64, note string) error {
	_, _, err := t.client.Projects.CreateProjectCard(ctx, columnID, &gh.ProjectCardOptions{Note: note})
	if err != nil {
		return callError(fmt.Sprintf("create card in column %d", columnID), err)
	}
	return nil
}

// CreateIssue opens an issue.
func (t *Tracker) CreateIssue(ctx context.Context, req secondary.IssueRequest) (*secondary.IssueRef, error) {
	issueReq := &gh.IssueRequest{
		Title: gh.String(req.Title),
		Body:  gh.String(req.Body),
	}
	if len(req.Labels) > 0 {
		labels := req.Labels
		issueReq.Labels = &labels
	}

	issue, _, err := t.client.Issues.Create(ctx, t.owner, t.repo, issueReq)
	if err != nil {
		return nil, callError("create issue", err)
	}
	return &secondary.IssueRef{Number: issue.GetNumber(), URL: issue.GetHTMLURL()}, nil
}

// GetIssue retrieves an issue.
func (t *Tracker) GetIssue(ctx context.Context, number int) (*secondary.IssueRecord, error) {
	issue, _, err := t.client.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return nil, callError(fmt.Sprintf("get issue #%d", number), err)
	}
	return &secondary.IssueRecord{
		Number: issue.GetNumber(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}, nil
}

// UpdateIssueState opens or closes an issue.
func (t *Tracker) UpdateIssueState(ctx context.Context, number int, state string) error {
	_, _, err := t.client.Issues.Edit(ctx, t.owner, t.repo, number, &gh.IssueRequest{State: gh.String(state)})
	if err != nil {
		return callError(fmt.Sprintf("update issue #%d", number), err)
	}
	return nil
}

// AssignIssue adds assignees to an issue.
func (t *Tracker) AssignIssue(ctx context.Context, number int, handles []string) error {
	_, _, err := t.client.Issues.AddAssignees(ctx, t.owner, t.repo, number, handles)
	if err != nil {
		return callError(fmt.Sprintf("assign issue #%d", number), err)
	}
	return nil
}

func toBoardRecord(p *gh.Project) *secondary.BoardRecord {
	return &secondary.BoardRecord{
		ID:    p.GetID(),
		Name:  p.GetName(),
		Body:  p.GetBody(),
		State: p.GetState(),
		URL:   p.GetHTMLURL(),
	}
}

func callError(op string, err error) error {
	return &secondary.ExternalCallError{Service: "github", Op: op, Err: err}
}

// Ensure Tracker implements the interface
var _ secondary.Tracker = (*Tracker)(nil)
