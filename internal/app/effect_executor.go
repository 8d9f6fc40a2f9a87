// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/retrobot/internal/core/effects"
	"github.com/example/retrobot/internal/ctxutil"
	"github.com/example/retrobot/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place external mutations happen.
type EffectExecutor interface {
	// Apply executes a single effect and returns identifiers assigned by the external system.
	Apply(ctx context.Context, eff effects.Effect) (effects.Outcome, error)

	// Execute applies effects in sequence, stopping at the first failure.
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the tracker and notifier.
// In dry-run mode (see ctxutil.WithDryRun) mutations are logged and skipped.
type DefaultEffectExecutor struct {
	tracker  secondary.Tracker
	notifier secondary.Notifier
	logger   secondary.Logger
	audit    secondary.AuditLog // nil disables the audit trail
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(tracker secondary.Tracker, notifier secondary.Notifier, logger secondary.Logger, audit secondary.AuditLog) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{
		tracker:  tracker,
		notifier: notifier,
		logger:   logger,
		audit:    audit,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if _, err := e.Apply(ctx, eff); err != nil {
			return err
		}
	}
	return nil
}

// Apply executes one effect.
func (e *DefaultEffectExecutor) Apply(ctx context.Context, eff effects.Effect) (effects.Outcome, error) {
	switch typed := eff.(type) {
	case effects.NoEffect:
		return effects.Outcome{}, nil
	case effects.LogEffect:
		e.log(typed)
		return effects.Outcome{}, nil
	case effects.CompositeEffect:
		return effects.Outcome{}, e.Execute(ctx, typed.Effects)
	}

	if ctxutil.DryRunFromContext(ctx) {
		e.logger.Infof("dry-run: would %s", eff.Describe())
		return effects.Outcome{}, nil
	}

	var (
		out    effects.Outcome
		target string
		err    error
	)
	switch typed := eff.(type) {
	case effects.BoardEffect:
		out, err = e.executeBoard(ctx, typed)
		target = strconv.FormatInt(max(typed.BoardID, out.ID), 10)
	case effects.ColumnEffect:
		out.ID, err = e.tracker.CreateColumn(ctx, typed.BoardID, typed.Name)
		target = strconv.FormatInt(typed.BoardID, 10)
	case effects.CardEffect:
		err = e.tracker.CreateCard(ctx, typed.ColumnID, typed.Note)
		target = strconv.FormatInt(typed.ColumnID, 10)
	case effects.IssueEffect:
		out, err = e.executeIssue(ctx, typed)
		target = strconv.Itoa(max(typed.Number, out.Number))
	case effects.NotifyEffect:
		out.Status, err = e.notifier.Post(ctx, typed.URL, secondary.Notification{
			Username:  typed.Username,
			Text:      typed.Text,
			IconEmoji: typed.IconEmoji,
			LinkNames: typed.LinkNames,
		})
		target = webhookHost(typed.URL)
	default:
		return effects.Outcome{}, fmt.Errorf("unknown effect type: %T", eff)
	}
	if err != nil {
		return effects.Outcome{}, fmt.Errorf("failed to %s: %w", eff.Describe(), err)
	}

	e.record(ctx, eff, target)
	return out, nil
}

func (e *DefaultEffectExecutor) executeBoard(ctx context.Context, eff effects.BoardEffect) (effects.Outcome, error) {
	switch eff.Operation {
	case effects.BoardCreate:
		ref, err := e.tracker.CreateBoard(ctx, eff.Name, eff.Body)
		if err != nil {
			return effects.Outcome{}, err
		}
		return effects.Outcome{ID: ref.ID, URL: ref.URL}, nil
	case effects.BoardUpdateBody:
		body := eff.Body
		return effects.Outcome{ID: eff.BoardID}, e.tracker.UpdateBoard(ctx, eff.BoardID, secondary.BoardUpdate{Body: &body})
	case effects.BoardClose:
		state := "closed"
		return effects.Outcome{ID: eff.BoardID}, e.tracker.UpdateBoard(ctx, eff.BoardID, secondary.BoardUpdate{State: &state})
	default:
		return effects.Outcome{}, fmt.Errorf("unknown board operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeIssue(ctx context.Context, eff effects.IssueEffect) (effects.Outcome, error) {
	switch eff.Operation {
	case effects.IssueCreate:
		ref, err := e.tracker.CreateIssue(ctx, secondary.IssueRequest{
			Title:  eff.Title,
			Body:   eff.Body,
			Labels: eff.Labels,
		})
		if err != nil {
			return effects.Outcome{}, err
		}
		return effects.Outcome{Number: ref.Number, URL: ref.URL}, nil
	case effects.IssueAssign:
		return effects.Outcome{Number: eff.Number}, e.tracker.AssignIssue(ctx, eff.Number, eff.Assignees)
	case effects.IssueClose:
		return effects.Outcome{Number: eff.Number}, e.tracker.UpdateIssueState(ctx, eff.Number, "closed")
	default:
		return effects.Outcome{}, fmt.Errorf("unknown issue operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) log(eff effects.LogEffect) {
	switch eff.Level {
	case "warn":
		e.logger.Warnf("%s", eff.Message)
	case "error":
		e.logger.Errorf("%s", eff.Message)
	default:
		e.logger.Infof("%s", eff.Message)
	}
}

// record writes an audit entry. Audit failures never fail the run.
func (e *DefaultEffectExecutor) record(ctx context.Context, eff effects.Effect, target string) {
	if e.audit == nil {
		return
	}
	operation := "create"
	switch typed := eff.(type) {
	case effects.BoardEffect:
		operation = typed.Operation
	case effects.IssueEffect:
		operation = typed.Operation
	case effects.NotifyEffect:
		operation = "post"
	}
	if err := e.audit.Record(ctx, eff.EffectType(), operation, target, eff.Describe()); err != nil {
		e.logger.Warnf("failed to record audit entry: %v", err)
	}
}

// webhookHost returns the host of a webhook URL. The path carries the secret and is never stored.
func webhookHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "webhook"
	}
	return strings.ToLower(u.Host)
}

// Ensure DefaultEffectExecutor implements the interface
var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
