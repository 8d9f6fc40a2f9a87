// Package retro contains the pure business logic for scheduling retrospectives.
// This is part of the Functional Core - no I/O, only pure functions.
package retro

import "time"

// Board states as reported by the tracker.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// RetroInfo is the durable record stored in a board description.
type RetroInfo struct {
	Team   string    // Empty string means no team
	Date   time.Time // Scheduled date of the retro
	Driver string    // Handle of the assigned driver
	Offset int       // Roster index of Driver when the record was produced
	Issue  int       // Tracking issue number, 0 when none was created
}

// HasIssue reports whether a tracking issue is attached.
func (i RetroInfo) HasIssue() bool {
	return i.Issue > 0
}

// Retro is a RetroInfo reconstructed from a tracker board.
type Retro struct {
	RetroInfo
	Title     string
	URL       string
	ProjectID int64
	State     string // "open" or "closed"
}

// IsOpen reports whether the board backing the retro is still open.
func (r *Retro) IsOpen() bool {
	return r.State == StateOpen
}
