package testutil

import (
	"context"
	"errors"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
	"standings-ticker/internal/providers"
)

// StubSource is a StandingsSource whose behavior is supplied per test via
// function fields. Unset methods fail loudly.
type StubSource struct {
	RankingsFn   func(ctx context.Context, d league.Descriptor) ([]providers.Poll, error)
	StandingsFn  func(ctx context.Context, d league.Descriptor) (providers.StandingsResult, error)
	TeamsFn      func(ctx context.Context, d league.Descriptor) ([]providers.TeamSeed, error)
	TeamRecordFn func(ctx context.Context, d league.Descriptor, abbreviation string) (domain.Record, error)

	RankingsCalls   int
	StandingsCalls  int
	TeamsCalls      int
	TeamRecordCalls int
}

var errStubUnset = errors.New("testutil: stub method not set")

func (s *StubSource) Rankings(ctx context.Context, d league.Descriptor) ([]providers.Poll, error) {
	s.RankingsCalls++
	if s.RankingsFn == nil {
		return nil, errStubUnset
	}
	return s.RankingsFn(ctx, d)
}

func (s *StubSource) Standings(ctx context.Context, d league.Descriptor) (providers.StandingsResult, error) {
	s.StandingsCalls++
	if s.StandingsFn == nil {
		return providers.StandingsResult{}, errStubUnset
	}
	return s.StandingsFn(ctx, d)
}

func (s *StubSource) Teams(ctx context.Context, d league.Descriptor) ([]providers.TeamSeed, error) {
	s.TeamsCalls++
	if s.TeamsFn == nil {
		return nil, errStubUnset
	}
	return s.TeamsFn(ctx, d)
}

func (s *StubSource) TeamRecord(ctx context.Context, d league.Descriptor, abbreviation string) (domain.Record, error) {
	s.TeamRecordCalls++
	if s.TeamRecordFn == nil {
		return domain.Record{}, errStubUnset
	}
	return s.TeamRecordFn(ctx, d, abbreviation)
}
