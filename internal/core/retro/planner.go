package retro

import "time"

// Action is the outcome of a run for the latest retro.
type Action string

const (
	ActionCreate Action = "create" // schedule the next retro
	ActionNotify Action = "notify" // retro is today, announce it
	ActionNone   Action = "none"   // retro already scheduled for a later day
)

// Decide chooses what a run does given the latest retro (nil when none exists).
// now carries the location day boundaries are evaluated in.
func Decide(last *Retro, now time.Time) Action {
	if last == nil {
		return ActionCreate
	}

	today := StartOfDay(now)
	if !last.Date.After(today) {
		return ActionCreate
	}
	if last.Date.Before(today.AddDate(0, 0, 1)) {
		return ActionNotify
	}
	return ActionNone
}

// CreatePlanInput contains the inputs needed to schedule the next retro.
// All values are pre-fetched by the caller - no I/O in the planner.
type CreatePlanInput struct {
	Team         string
	Roster       []string
	Weekday      time.Weekday
	CadenceWeeks int
	Last         *Retro // nil when no retro exists yet
	Now          time.Time
}

// CreatePlan describes the retro to create.
type CreatePlan struct {
	Info         RetroInfo
	FutureDriver string // driver after Info.Driver, for previews only
}

// GenerateCreatePlan computes date, driver and record for the next retro.
func GenerateCreatePlan(input CreatePlanInput) CreatePlan {
	anchor := input.Now
	lastDriver, lastOffset := "", 0
	if input.Last != nil {
		anchor = input.Last.Date.In(input.Now.Location())
		lastDriver = input.Last.Driver
		lastOffset = input.Last.Offset
	}

	driver := NextDriver(input.Roster, lastDriver, lastOffset)

	return CreatePlan{
		Info: RetroInfo{
			Team:   input.Team,
			Date:   NextDate(anchor, input.Weekday, input.CadenceWeeks, input.Now),
			Driver: driver,
			Offset: DriverOffset(input.Roster, driver),
		},
		FutureDriver: NextDriver(input.Roster, driver, 0),
	}
}

// CloseCutoff returns the instant before which open retros are closed.
func CloseCutoff(now time.Time, closeAfterDays int) time.Time {
	return now.AddDate(0, 0, -closeAfterDays)
}
