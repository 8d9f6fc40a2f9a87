// Package ctxutil carries per-run values through a context: who triggered the
// run, the run ID audit entries are grouped by, and the dry-run switch.
// It has no internal dependencies so any layer may import it.
package ctxutil

import "context"

type (
	actorKey  struct{}
	runIDKey  struct{}
	dryRunKey struct{}
)

// WithActorID returns a context attributing mutations to actorID.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor ID, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}

// WithRunID returns a context tagged with the ID of the current run.
// Audit entries written during the run share it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID, or empty string if not set.
func RunIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey{}).(string)
	return v
}

// WithDryRun returns a context in which external mutations are suppressed.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// DryRunFromContext reports whether external mutations are suppressed.
func DryRunFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(dryRunKey{}).(bool)
	return v
}
