package standings

// Row is one league-table line as of a given round. Snapshots are stored
// per round so importance can be computed without lookahead.
type Row struct {
	Season   int
	Round    int
	Team     string
	Position int
	Points   int
}
