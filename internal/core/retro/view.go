package retro

// View keys shared by all templates.
const (
	ViewDate       = "date"
	ViewDriver     = "driver"
	ViewTeam       = "team"
	ViewNextDriver = "next-driver"
	ViewLastRetro  = "last-retro"
	ViewTitle      = "title"
	ViewURL        = "url"
)

// BuildView assembles the template view for a newly scheduled retro.
func BuildView(info RetroInfo, last *Retro, futureDriver string) map[string]any {
	view := map[string]any{
		ViewDate:       ReadableDate(info.Date),
		ViewDriver:     info.Driver,
		ViewTeam:       info.Team,
		ViewNextDriver: futureDriver,
	}

	if last != nil {
		view[ViewLastRetro] = map[string]any{
			ViewTitle:  last.Title,
			ViewDate:   ReadableDate(last.Date),
			ViewDriver: last.Driver,
			ViewURL:    last.URL,
		}
	}

	return view
}

// RetroView is the view used to announce an existing retro.
func RetroView(r *Retro) map[string]any {
	return map[string]any{
		ViewTitle:  r.Title,
		ViewDate:   ReadableDate(r.Date),
		ViewDriver: r.Driver,
		ViewTeam:   r.Team,
		ViewURL:    r.URL,
	}
}
