package secondary

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Tracker defines the secondary port for the issue/project tracking service.
// Boards are the containers representing one retro cycle.
type Tracker interface {
	// ListBoards lazily yields every board of the repository, one page at a time.
	// Iteration stops at the first error.
	ListBoards(ctx context.Context) iter.Seq2[[]*BoardRecord, error]

	// CreateBoard creates a board with the given name and description.
	CreateBoard(ctx context.Context, name, body string) (*BoardRef, error)

	// UpdateBoard changes the description and/or state of a board.
	UpdateBoard(ctx context.Context, id int64, update BoardUpdate) error

	// CreateColumn adds a column to a board and returns its id.
	CreateColumn(ctx context.Context, boardID int64, name string) (int64, error)

	// CreateCard adds a note card at the top of a column.
	CreateCard(ctx context.Context, columnID int64, note string) error

	// CreateIssue opens an issue.
	CreateIssue(ctx context.Context, req IssueRequest) (*IssueRef, error)

	// GetIssue retrieves an issue by number.
	GetIssue(ctx context.Context, number int) (*IssueRecord, error)

	// UpdateIssueState sets an issue to "open" or "closed".
	UpdateIssueState(ctx context.Context, number int, state string) error

	// AssignIssue adds assignees to an issue.
	AssignIssue(ctx context.Context, number int, handles []string) error
}

// BoardRecord represents a board as returned by the tracker.
type BoardRecord struct {
	ID    int64
	Name  string
	Body  string // free-text description
	State string // "open" or "closed"
	URL   string
}

// BoardRef identifies a created board.
type BoardRef struct {
	ID  int64
	URL string
}

// BoardUpdate describes a board change. Nil fields are left unchanged.
type BoardUpdate struct {
	Body  *string
	State *string
}

// IssueRequest contains the fields for opening an issue.
type IssueRequest struct {
	Title  string
	Body   string
	Labels []string
}

// IssueRef identifies a created issue.
type IssueRef struct {
	Number int
	URL    string
}

// IssueRecord represents an issue as returned by the tracker.
type IssueRecord struct {
	Number int
	State  string // "open" or "closed"
	URL    string
}

// ErrExternalCall matches every ExternalCallError via errors.Is.
var ErrExternalCall = errors.New("external call failed")

// ExternalCallError reports a failed call to the tracker or the webhook.
type ExternalCallError struct {
	Service string // "github", "webhook"
	Op      string // e.g. "create project"
	Err     error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }

// Is reports whether target is ErrExternalCall.
func (e *ExternalCallError) Is(target error) bool { return target == ErrExternalCall }
