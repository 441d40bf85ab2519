package membership

// Membership is one participant's record inside one competition. Points and
// Strikes are derived values: the aggregator recomputes both from settled
// picks on every pass and never increments them in place.
type Membership struct {
	ID            int64
	MemberID      string
	CompetitionID string
	Points        int
	Strikes       int
	Active        bool
}
