// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
//
// Every mutation of the tracker or the chat webhook is expressed as an effect so
// that a single executor can apply, suppress (dry run) or audit it.
package effects

import "fmt"

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string

	// Describe returns a one-line human readable summary.
	Describe() string
}

// Outcome carries identifiers assigned by the external system.
// A suppressed effect yields the zero Outcome.
type Outcome struct {
	ID     int64  // board or column id
	Number int    // issue number
	URL    string // html url of the created resource
	Status string // transport status, e.g. webhook response
}

// LogEffect records a decision in the run log. It is never suppressed by dry run.
type LogEffect struct {
	Level   string // info, warn or error
	Message string
}

func (e LogEffect) EffectType() string { return "log" }
func (e LogEffect) Describe() string   { return e.Message }

// Board operations.
const (
	BoardCreate     = "create"
	BoardUpdateBody = "update_body"
	BoardClose      = "close"
)

// BoardEffect represents a project board mutation.
type BoardEffect struct {
	Operation string // create, update_body, close
	BoardID   int64  // target for update_body and close
	Name      string // create only
	Body      string // create and update_body
}

func (e BoardEffect) EffectType() string { return "board" }

func (e BoardEffect) Describe() string {
	switch e.Operation {
	case BoardCreate:
		return fmt.Sprintf("create board %q", e.Name)
	case BoardUpdateBody:
		return fmt.Sprintf("update description of board %d", e.BoardID)
	case BoardClose:
		return fmt.Sprintf("close board %d", e.BoardID)
	default:
		return fmt.Sprintf("%s board %d", e.Operation, e.BoardID)
	}
}

// ColumnEffect represents creating a column on a board.
type ColumnEffect struct {
	BoardID int64
	Name    string
}

func (e ColumnEffect) EffectType() string { return "column" }
func (e ColumnEffect) Describe() string   { return fmt.Sprintf("create column %q", e.Name) }

// CardEffect represents adding a note card to a column.
type CardEffect struct {
	ColumnID int64
	Column   string // column name, for logs
	Note     string
}

func (e CardEffect) EffectType() string { return "card" }
func (e CardEffect) Describe() string {
	return fmt.Sprintf("add card %q to column %q", e.Note, e.Column)
}

// Issue operations.
const (
	IssueCreate = "create"
	IssueAssign = "assign"
	IssueClose  = "close"
)

// IssueEffect represents a tracking issue mutation.
type IssueEffect struct {
	Operation string // create, assign, close
	Number    int    // target for assign and close
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

func (e IssueEffect) EffectType() string { return "issue" }

func (e IssueEffect) Describe() string {
	switch e.Operation {
	case IssueCreate:
		return fmt.Sprintf("create issue %q", e.Title)
	case IssueAssign:
		return fmt.Sprintf("assign issue %d to %v", e.Number, e.Assignees)
	case IssueClose:
		return fmt.Sprintf("close issue %d", e.Number)
	default:
		return fmt.Sprintf("%s issue %d", e.Operation, e.Number)
	}
}

// NotifyEffect represents a chat webhook post.
type NotifyEffect struct {
	URL       string
	Username  string
	Text      string
	IconEmoji string
	LinkNames bool
}

func (e NotifyEffect) EffectType() string { return "notify" }
func (e NotifyEffect) Describe() string   { return fmt.Sprintf("send notification %q", e.Text) }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }
func (e CompositeEffect) Describe() string   { return fmt.Sprintf("%d effects", len(e.Effects)) }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
func (e NoEffect) Describe() string   { return "nothing" }
