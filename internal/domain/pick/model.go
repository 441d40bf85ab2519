package pick

// Result is the outcome of a settled pick. A pick keeps a nil result until
// its match completes with a full score.
type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

// Pick is one participant's choice for one week of one competition. The
// (MemberID, CompetitionID, Week) triple is unique; writes go through
// upsert-on-conflict so a participant can never hold two live picks for the
// same week.
type Pick struct {
	ID            int64
	MemberID      string
	CompetitionID string
	Week          int
	MatchID       int64
	PickedTeamID  int64
	Result        *Result
}

func (p Pick) Resolved() bool {
	return p.Result != nil
}
