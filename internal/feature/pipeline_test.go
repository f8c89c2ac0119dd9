package feature

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func pipelineInputs(t *testing.T) Inputs {
	t.Helper()
	m1 := simpleMatch(t, 1, "2023-01-01", "Flamengo", "Santos", 2, 0)
	m1.City = "Rio de Janeiro-RJ"
	m1.Round = "Rodada 1"
	m2 := simpleMatch(t, 2, "2023-01-08", "Santos", "Flamengo", 1, 1)
	m2.City = "Santos-SP"
	m2.Round = "Rodada 2"
	m3 := simpleMatch(t, 3, "2023-01-15", "Flamengo", "Grêmio", 3, 1)
	m3.City = "Rio de Janeiro-RJ"
	m3.Round = "Rodada 3"

	return Inputs{
		Matches: []Match{m1, m2, m3},
		PlayerStats: []PlayerStat{
			{MatchID: 1, PlayerID: 10, Team: "Flamengo", Goals: 2},
			{MatchID: 2, PlayerID: 10, Team: "Flamengo", Goals: 1, Assists: 1},
		},
		Standings: []StandingsRow{
			{Round: 3, Team: "Flamengo", Position: 4, Points: 6},
			{Round: 3, Team: "Grêmio", Position: 17, Points: 1},
		},
	}
}

func TestPipelinePreservesRowIdentity(t *testing.T) {
	t.Parallel()

	in := pipelineInputs(t)
	rows, err := NewPipeline(DefaultConfig()).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	if len(rows) != len(in.Matches) {
		t.Fatalf("row count changed: %d != %d", len(rows), len(in.Matches))
	}
	for i, row := range rows {
		if row.ID != in.Matches[i].ID {
			t.Fatalf("row %d id changed: %d != %d", i, row.ID, in.Matches[i].ID)
		}
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	in := pipelineInputs(t)
	cfg := DefaultConfig()
	cfg.Window = 2
	rows, err := NewPipeline(cfg).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}

	byID := make(map[int64]Row, len(rows))
	for _, row := range rows {
		byID[row.Match.ID] = row
	}

	// Flamengo's third fixture: (2+1)/2 goals, 7 rest days twice over.
	wantFloat(t, byID[3].RollingHome.GoalsFor, 1.5, "goals_for window 2")
	if byID[2].RestDaysHome == nil || *byID[2].RestDaysHome != 7 {
		t.Fatalf("expected 7 rest days at match 2, got %+v", byID[2].RestDaysHome)
	}
	if byID[3].RestDaysHome == nil || *byID[3].RestDaysHome != 7 {
		t.Fatalf("expected 7 rest days at match 3, got %+v", byID[3].RestDaysHome)
	}

	// Both sides played in their own city at matches 1 and 2.
	wantFloat(t, byID[1].TravelKmHome, 0, "home city travel")
	wantFloat(t, byID[2].TravelKmHome, 0, "home city travel match 2")

	// Key players accumulate across the first two fixtures.
	if len(byID[3].KeyPlayersHome) != 1 || byID[3].KeyPlayersHome[0].Score != 4 {
		t.Fatalf("unexpected key players %+v", byID[3].KeyPlayersHome)
	}

	// Flamengo holds rank 4 in round 3 with gap_z4 = 5, early round.
	wantFloat(t, byID[3].ImportanceHome, 0.083, "importance at round 3")
}

func TestPipelineIdempotent(t *testing.T) {
	t.Parallel()

	in := pipelineInputs(t)
	p := NewPipeline(DefaultConfig())

	first, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("pipeline output differs across identical runs")
	}
}

func TestPipelineMissingAuxTablesDegradeToNil(t *testing.T) {
	t.Parallel()

	in := Inputs{Matches: pipelineInputs(t).Matches}
	rows, err := NewPipeline(DefaultConfig()).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	for _, row := range rows {
		wantNilFloat(t, row.ImportanceHome, "importance without standings")
		if len(row.KeyPlayersHome) != 0 {
			t.Fatalf("key players without stats must be empty, got %+v", row.KeyPlayersHome)
		}
	}
}

func TestPipelineRejectsInvalidMatchTable(t *testing.T) {
	t.Parallel()

	p := NewPipeline(DefaultConfig())

	dup := pipelineInputs(t)
	dup.Matches[1].ID = dup.Matches[0].ID
	if _, err := p.Run(context.Background(), dup); !errors.Is(err, ErrInvalidMatchTable) {
		t.Fatalf("expected ErrInvalidMatchTable for duplicate ids, got %v", err)
	}

	blank := pipelineInputs(t)
	blank.Matches[0].HomeTeam = ""
	if _, err := p.Run(context.Background(), blank); !errors.Is(err, ErrInvalidMatchTable) {
		t.Fatalf("expected ErrInvalidMatchTable for missing team, got %v", err)
	}

	noDate := pipelineInputs(t)
	noDate.Matches[0].Date = time.Time{}
	if _, err := p.Run(context.Background(), noDate); !errors.Is(err, ErrInvalidMatchTable) {
		t.Fatalf("expected ErrInvalidMatchTable for zero date, got %v", err)
	}
}
