package competition

// WeekMarkers are the three derived per-competition week boundaries. All
// three are nullable: a nil marker means no week qualifies yet. They are
// recomputed from the schedule on every reconciliation run, never adjusted
// incrementally, so a manual data correction self-heals on the next run.
type WeekMarkers struct {
	// CurrentGameWeek is the highest week with at least one match started
	// or finished.
	CurrentGameWeek *int
	// CurrentPickWeek is the lowest week that still has an unstarted match.
	CurrentPickWeek *int
	// LastCompletedWeek is the highest week whose matches are all completed.
	// Invariant: LastCompletedWeek <= CurrentGameWeek whenever both are set.
	LastCompletedWeek *int
}

// Competition is one tracked league/pool. Code is the provider-side
// competition code used for the bulk range query.
type Competition struct {
	ID      string
	Name    string
	Code    string
	Season  string
	Markers WeekMarkers
	Active  bool
}

// SettledWeek returns the last fully completed week, or 0 when no week has
// settled yet.
func (c Competition) SettledWeek() int {
	if c.Markers.LastCompletedWeek == nil {
		return 0
	}
	return *c.Markers.LastCompletedWeek
}
