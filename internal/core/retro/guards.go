package retro

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an ErrConfig error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfig, r.Reason)
}

// ScheduleContext carries the settings that drive scheduling and rotation.
type ScheduleContext struct {
	Roster         []string
	Weekday        int
	CadenceWeeks   int
	CloseAfterDays int
}

// CanSchedule evaluates whether a run may proceed with the given settings.
// Rule: roster non-empty, weekday 0-6, cadence at least one week, retention not negative.
func CanSchedule(ctx ScheduleContext) GuardResult {
	if len(ctx.Roster) == 0 {
		return GuardResult{Reason: "requires at least one handle"}
	}
	for i, h := range ctx.Roster {
		if h == "" {
			return GuardResult{Reason: fmt.Sprintf("handle %d is empty", i+1)}
		}
	}
	if ctx.Weekday < 0 || ctx.Weekday > 6 {
		return GuardResult{Reason: fmt.Sprintf("day of week must be 0-6 (0 is Sunday), got %d", ctx.Weekday)}
	}
	if ctx.CadenceWeeks < 1 {
		return GuardResult{Reason: fmt.Sprintf("cadence must be at least 1 week, got %d", ctx.CadenceWeeks)}
	}
	if ctx.CloseAfterDays < 0 {
		return GuardResult{Reason: fmt.Sprintf("close-after-days cannot be negative, got %d", ctx.CloseAfterDays)}
	}
	return GuardResult{Allowed: true}
}
