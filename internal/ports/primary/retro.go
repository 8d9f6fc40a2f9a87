package primary

import (
	"context"
	"time"
)

// RetroService defines the primary port for retro scheduling operations.
type RetroService interface {
	// Run performs one scheduling pass: close stale retros, then create,
	// notify or do nothing depending on the latest retro.
	Run(ctx context.Context, req RunRequest) (*RunResult, error)

	// Status reports the latest retro and what Run would do, without mutating anything.
	Status(ctx context.Context, req StatusRequest) (*StatusResult, error)
}

// RunRequest is the fully validated configuration for a run.
type RunRequest struct {
	TeamName             string
	Handles              []string // ordered roster, non-empty
	CadenceWeeks         int
	DayOfWeek            int // 0 is Sunday
	TitleTemplate        string
	NotificationURL      string // empty disables notifications
	NotificationTemplate string
	NotificationUsername string
	NotificationEmoji    string
	CloseAfterDays       int // 0 disables closing
	CreateTrackingIssue  bool
	IssueTemplate        string
	IssueLabels          []string
	Columns              []string // empty means the default set
	Cards                string   // one "<template> => <column>" per line
	DryRun               bool
}

// Retro is a located retro at the port boundary.
type Retro struct {
	Title     string
	URL       string
	ProjectID int64
	State     string
	Team      string
	Date      time.Time
	Driver    string
	Offset    int
	Issue     int // 0 when none
}

// RunResult describes what a run did (or would have done in dry-run mode).
type RunResult struct {
	Action   string // "create", "notify" or "none"
	DryRun   bool
	Last     *Retro // latest retro before the run, nil when none
	Created  *CreatedRetro
	Notified *Notification
	Closed   *ClosedRetro
}

// CreatedRetro describes a newly scheduled retro.
type CreatedRetro struct {
	Title        string
	Date         time.Time
	Driver       string
	FutureDriver string
	BoardID      int64
	BoardURL     string
	IssueNumber  int
	IssueURL     string
}

// Notification describes a sent notification.
type Notification struct {
	Text   string
	Status string // webhook response status, empty in dry-run mode
}

// ClosedRetro describes a retro closed for being past the retention window.
type ClosedRetro struct {
	Retro       *Retro
	IssueClosed bool
}

// StatusRequest carries the settings Status needs.
type StatusRequest struct {
	TeamName string
}

// StatusResult reports the current state of the team's retros.
type StatusResult struct {
	Latest     *Retro // nil when no retro exists
	NextAction string
	Now        time.Time
}
