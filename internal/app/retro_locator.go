package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ports/secondary"
)

// LocatorQuery selects which retros FindLatestRetro considers.
type LocatorQuery struct {
	Team     string     // exact match; empty only matches retros without a team
	Before   *time.Time // when set, only retros dated strictly before it
	OpenOnly bool       // skip closed boards

	// Location the returned retro's date is expressed in, so calendar days
	// render as the team sees them. Nil keeps the stored UTC instant.
	Location *time.Location
}

// RetroLocator reconstructs retros from tracker boards.
type RetroLocator struct {
	tracker secondary.Tracker
	logger  secondary.Logger
}

// NewRetroLocator creates a new RetroLocator.
func NewRetroLocator(tracker secondary.Tracker, logger secondary.Logger) *RetroLocator {
	return &RetroLocator{
		tracker: tracker,
		logger:  logger,
	}
}

// FindLatestRetro returns the most recent retro matching the query, or nil if none does.
//
// Boards whose description is tagged but cannot be decoded are logged and
// skipped. When two retros share the latest date the one with the higher
// board id wins.
func (l *RetroLocator) FindLatestRetro(ctx context.Context, q LocatorQuery) (*retro.Retro, error) {
	var latest *retro.Retro
	for page, err := range l.tracker.ListBoards(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list boards: %w", err)
		}
		for _, board := range page {
			r, ok := l.match(board, q)
			if !ok {
				continue
			}
			if latest == nil || r.Date.After(latest.Date) ||
				(r.Date.Equal(latest.Date) && r.ProjectID > latest.ProjectID) {
				latest = r
			}
		}
	}
	return latest, nil
}

func (l *RetroLocator) match(board *secondary.BoardRecord, q LocatorQuery) (*retro.Retro, bool) {
	if !retro.IsRetroBody(board.Body) {
		return nil, false
	}
	info, err := retro.Decode(board.Body)
	if err != nil {
		l.logger.Warnf("skipping board %d (%s): %v", board.ID, board.Name, err)
		return nil, false
	}
	if info.Team != q.Team {
		return nil, false
	}
	if q.Before != nil && !info.Date.Before(*q.Before) {
		return nil, false
	}
	if q.OpenOnly && board.State != retro.StateOpen {
		return nil, false
	}
	if q.Location != nil {
		info.Date = info.Date.In(q.Location)
	}
	return &retro.Retro{
		RetroInfo: info,
		Title:     board.Name,
		URL:       board.URL,
		ProjectID: board.ID,
		State:     board.State,
	}, true
}
