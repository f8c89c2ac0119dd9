package usecase

import (
	"context"
	"fmt"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
)

type MatchListInput struct {
	Season int
	Limit  int
}

// MatchService exposes read access to the stored match table.
type MatchService struct {
	matches match.Repository
}

func NewMatchService(matches match.Repository) *MatchService {
	return &MatchService{matches: matches}
}

func (s *MatchService) List(ctx context.Context, input MatchListInput) ([]match.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.List")
	defer span.End()

	if input.Season < 0 {
		return nil, fmt.Errorf("%w: season must be >= 0", ErrInvalidInput)
	}
	if input.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}

	if input.Limit > 0 {
		records, err := s.matches.ListRecent(ctx, input.Season, input.Limit)
		if err != nil {
			return nil, fmt.Errorf("list recent matches: %w", err)
		}
		return records, nil
	}
	if input.Season > 0 {
		records, err := s.matches.ListBySeason(ctx, input.Season)
		if err != nil {
			return nil, fmt.Errorf("list matches by season: %w", err)
		}
		return records, nil
	}
	records, err := s.matches.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return records, nil
}
