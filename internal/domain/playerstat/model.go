package playerstat

// Stat is one player's box-score line for one match.
type Stat struct {
	MatchID  int64
	PlayerID int64
	Team     string
	Goals    int
	Assists  int
}
