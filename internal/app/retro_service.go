package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/retrobot/internal/core/effects"
	"github.com/example/retrobot/internal/core/retro"
	"github.com/example/retrobot/internal/ctxutil"
	"github.com/example/retrobot/internal/ports/primary"
	"github.com/example/retrobot/internal/ports/secondary"
)

// RetroServiceImpl implements the RetroService interface.
type RetroServiceImpl struct {
	tracker  secondary.Tracker
	renderer secondary.Renderer
	executor EffectExecutor
	logger   secondary.Logger
	locator  *RetroLocator
	now      func() time.Time // carries the location day boundaries are evaluated in
}

// NewRetroService creates a new RetroService with injected dependencies.
func NewRetroService(
	tracker secondary.Tracker,
	renderer secondary.Renderer,
	executor EffectExecutor,
	logger secondary.Logger,
	now func() time.Time,
) *RetroServiceImpl {
	return &RetroServiceImpl{
		tracker:  tracker,
		renderer: renderer,
		executor: executor,
		logger:   logger,
		locator:  NewRetroLocator(tracker, logger),
		now:      now,
	}
}

// Run performs one scheduling pass.
func (s *RetroServiceImpl) Run(ctx context.Context, req primary.RunRequest) (*primary.RunResult, error) {
	// 1. Guard check
	guard := retro.CanSchedule(retro.ScheduleContext{
		Roster:         req.Handles,
		Weekday:        req.DayOfWeek,
		CadenceWeeks:   req.CadenceWeeks,
		CloseAfterDays: req.CloseAfterDays,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	ctx = ctxutil.WithDryRun(ctx, req.DryRun)
	if ctxutil.RunIDFromContext(ctx) == "" {
		ctx = ctxutil.WithRunID(ctx, uuid.NewString())
	}
	now := s.now()
	result := &primary.RunResult{DryRun: req.DryRun}

	// 2. Close retros past the retention window
	if req.CloseAfterDays > 0 {
		closed, err := s.closeOld(ctx, req, now)
		if err != nil {
			return nil, err
		}
		result.Closed = closed
	}

	// 3. Locate the latest retro and decide
	last, err := s.locator.FindLatestRetro(ctx, LocatorQuery{Team: req.TeamName, Location: now.Location()})
	if err != nil {
		return nil, err
	}
	if last != nil {
		s.logger.Infof("latest retro: %q on %s driven by %s", last.Title, retro.ReadableDate(last.Date), last.Driver)
		result.Last = toPrimaryRetro(last)
	} else {
		s.logger.Infof("no previous retro found for team %q", req.TeamName)
	}

	action := retro.Decide(last, now)
	result.Action = string(action)

	// 4. Act
	switch action {
	case retro.ActionNone:
		_, err = s.executor.Apply(ctx, effects.LogEffect{
			Level:   "info",
			Message: fmt.Sprintf("next retro already scheduled for %s", retro.ReadableDate(last.Date)),
		})
	case retro.ActionNotify:
		result.Notified, err = s.notify(ctx, req, last)
	case retro.ActionCreate:
		result.Created, err = s.create(ctx, req, last, now)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Status reports the latest retro and the action the next run would take.
func (s *RetroServiceImpl) Status(ctx context.Context, req primary.StatusRequest) (*primary.StatusResult, error) {
	now := s.now()
	last, err := s.locator.FindLatestRetro(ctx, LocatorQuery{Team: req.TeamName, Location: now.Location()})
	if err != nil {
		return nil, err
	}

	result := &primary.StatusResult{
		NextAction: string(retro.Decide(last, now)),
		Now:        now,
	}
	if last != nil {
		result.Latest = toPrimaryRetro(last)
	}
	return result, nil
}

func (s *RetroServiceImpl) notify(ctx context.Context, req primary.RunRequest, last *retro.Retro) (*primary.Notification, error) {
	if req.NotificationURL == "" {
		s.logger.Infof("retro %q is today, no notification url configured", last.Title)
		return nil, nil
	}

	text, err := s.render(req.NotificationTemplate, retro.RetroView(last))
	if err != nil {
		return nil, err
	}

	out, err := s.executor.Apply(ctx, effects.NotifyEffect{
		URL:       req.NotificationURL,
		Username:  req.NotificationUsername,
		Text:      text,
		IconEmoji: req.NotificationEmoji,
		LinkNames: true,
	})
	if err != nil {
		return nil, err
	}
	if out.Status != "" {
		s.logger.Infof("notification sent: %s", out.Status)
	}
	return &primary.Notification{Text: text, Status: out.Status}, nil
}

func (s *RetroServiceImpl) create(ctx context.Context, req primary.RunRequest, last *retro.Retro, now time.Time) (*primary.CreatedRetro, error) {
	plan := retro.GenerateCreatePlan(retro.CreatePlanInput{
		Team:         req.TeamName,
		Roster:       req.Handles,
		Weekday:      time.Weekday(req.DayOfWeek),
		CadenceWeeks: req.CadenceWeeks,
		Last:         last,
		Now:          now,
	})
	s.logger.Infof("next retro on %s driven by %s (then %s)",
		retro.ReadableDate(plan.Info.Date), plan.Info.Driver, plan.FutureDriver)

	view := retro.BuildView(plan.Info, last, plan.FutureDriver)
	title, err := s.render(req.TitleTemplate, view)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	s.logger.Infof("title: %s", title)
	view[retro.ViewTitle] = title

	body, err := retro.Encode(plan.Info)
	if err != nil {
		return nil, err
	}
	board, err := s.executor.Apply(ctx, effects.BoardEffect{
		Operation: effects.BoardCreate,
		Name:      title,
		Body:      body,
	})
	if err != nil {
		return nil, err
	}
	view[retro.ViewURL] = board.URL
	if board.URL != "" {
		s.logger.Infof("created board %s", board.URL)
	}

	if err := s.populateBoard(ctx, req, board.ID, view); err != nil {
		return nil, err
	}

	created := &primary.CreatedRetro{
		Title:        title,
		Date:         plan.Info.Date,
		Driver:       plan.Info.Driver,
		FutureDriver: plan.FutureDriver,
		BoardID:      board.ID,
		BoardURL:     board.URL,
	}

	if req.CreateTrackingIssue {
		issue, err := s.createIssue(ctx, req, title, body, board.ID, plan.Info.Driver, view)
		if err != nil {
			return nil, err
		}
		created.IssueNumber = issue.Number
		created.IssueURL = issue.URL
	}
	return created, nil
}

// populateBoard creates the columns, then applies the card batch.
func (s *RetroServiceImpl) populateBoard(ctx context.Context, req primary.RunRequest, boardID int64, view map[string]any) error {
	columnIDs := make(map[string]int64)
	for _, name := range retro.BoardColumns(req.Columns) {
		out, err := s.executor.Apply(ctx, effects.ColumnEffect{BoardID: boardID, Name: name})
		if err != nil {
			return err
		}
		columnIDs[name] = out.ID
	}

	batch, err := s.cardBatch(req.Cards, columnIDs, view)
	if err != nil {
		return err
	}
	_, err = s.executor.Apply(ctx, batch)
	return err
}

// cardBatch renders the configured cards into one composite effect, in
// processing order. Cards that render empty or name a missing column become
// log entries instead of mutations.
func (s *RetroServiceImpl) cardBatch(spec string, columnIDs map[string]int64, view map[string]any) (effects.Effect, error) {
	cards := retro.ParseCards(spec)
	if len(cards) == 0 {
		return effects.NoEffect{}, nil
	}

	var batch []effects.Effect
	for _, card := range cards {
		note, err := s.render(card.Template, view)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(note) == "" {
			batch = append(batch, effects.LogEffect{
				Level:   "info",
				Message: fmt.Sprintf("skipping card %q: rendered empty", card.Template),
			})
			continue
		}
		columnID, ok := columnIDs[card.Column]
		if !ok {
			batch = append(batch, effects.LogEffect{
				Level:   "warn",
				Message: fmt.Sprintf("skipping card %q: no column named %q", note, card.Column),
			})
			continue
		}
		batch = append(batch, effects.CardEffect{
			ColumnID: columnID,
			Column:   card.Column,
			Note:     note,
		})
	}
	return effects.CompositeEffect{Effects: batch}, nil
}

// createIssue opens the tracking issue, assigns the driver and attaches the
// issue number to the board description.
func (s *RetroServiceImpl) createIssue(ctx context.Context, req primary.RunRequest, title, boardBody string, boardID int64, driver string, view map[string]any) (effects.Outcome, error) {
	issueBody, err := s.render(req.IssueTemplate, view)
	if err != nil {
		return effects.Outcome{}, err
	}

	issue, err := s.executor.Apply(ctx, effects.IssueEffect{
		Operation: effects.IssueCreate,
		Title:     title,
		Body:      issueBody,
		Labels:    req.IssueLabels,
	})
	if err != nil {
		return effects.Outcome{}, err
	}
	if issue.URL != "" {
		s.logger.Infof("created issue %s", issue.URL)
	}

	if _, err := s.executor.Apply(ctx, effects.IssueEffect{
		Operation: effects.IssueAssign,
		Number:    issue.Number,
		Assignees: []string{driver},
	}); err != nil {
		return effects.Outcome{}, err
	}

	info, err := retro.Decode(boardBody)
	if err != nil {
		return effects.Outcome{}, err
	}
	info.Issue = issue.Number
	body, err := retro.Encode(info)
	if err != nil {
		return effects.Outcome{}, err
	}
	if _, err := s.executor.Apply(ctx, effects.BoardEffect{
		Operation: effects.BoardUpdateBody,
		BoardID:   boardID,
		Body:      body,
	}); err != nil {
		return effects.Outcome{}, err
	}
	return issue, nil
}

// closeOld closes the latest open retro older than the retention window,
// along with its tracking issue when that is still open.
func (s *RetroServiceImpl) closeOld(ctx context.Context, req primary.RunRequest, now time.Time) (*primary.ClosedRetro, error) {
	cutoff := retro.CloseCutoff(now, req.CloseAfterDays)
	old, err := s.locator.FindLatestRetro(ctx, LocatorQuery{
		Team:     req.TeamName,
		Before:   &cutoff,
		OpenOnly: true,
		Location: now.Location(),
	})
	if err != nil {
		return nil, err
	}
	if old == nil {
		s.logger.Infof("no open retro older than %d days", req.CloseAfterDays)
		return nil, nil
	}

	if _, err := s.executor.Apply(ctx, effects.BoardEffect{
		Operation: effects.BoardClose,
		BoardID:   old.ProjectID,
	}); err != nil {
		return nil, err
	}
	s.logger.Infof("closed retro %q", old.Title)

	closed := &primary.ClosedRetro{Retro: toPrimaryRetro(old)}
	if old.HasIssue() {
		closed.IssueClosed, err = s.closeIssue(ctx, old.Issue)
		if err != nil {
			return nil, err
		}
	}
	return closed, nil
}

// closeIssue closes an open issue. Lookup failures are logged and treated as nothing to do.
func (s *RetroServiceImpl) closeIssue(ctx context.Context, number int) (bool, error) {
	issue, err := s.tracker.GetIssue(ctx, number)
	if err != nil {
		s.logger.Warnf("could not look up issue #%d: %v", number, err)
		return false, nil
	}
	if issue.State == retro.StateClosed {
		s.logger.Infof("issue #%d already closed", number)
		return false, nil
	}

	if _, err := s.executor.Apply(ctx, effects.IssueEffect{
		Operation: effects.IssueClose,
		Number:    number,
	}); err != nil {
		return false, err
	}
	s.logger.Infof("closed issue #%d", number)
	return true, nil
}

func (s *RetroServiceImpl) render(tmpl string, view map[string]any) (string, error) {
	out, err := s.renderer.Render(tmpl, view)
	if err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", tmpl, err)
	}
	return out, nil
}

func toPrimaryRetro(r *retro.Retro) *primary.Retro {
	return &primary.Retro{
		Title:     r.Title,
		URL:       r.URL,
		ProjectID: r.ProjectID,
		State:     r.State,
		Team:      r.Team,
		Date:      r.Date,
		Driver:    r.Driver,
		Offset:    r.Offset,
		Issue:     r.Issue,
	}
}

// Ensure RetroServiceImpl implements the interface
var _ primary.RetroService = (*RetroServiceImpl)(nil)
