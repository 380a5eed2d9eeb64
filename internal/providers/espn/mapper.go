package espn

import (
	"log/slog"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/logging"
	"standings-ticker/internal/providers"
)

func mapPolls(resp rankingsResponse, logger *slog.Logger) []providers.Poll {
	polls := make([]providers.Poll, 0, len(resp.Rankings))
	for _, ranking := range resp.Rankings {
		poll := providers.Poll{
			Name:    ranking.Name,
			Type:    ranking.Type,
			Entries: make([]domain.TeamRecord, 0, len(ranking.Ranks)),
		}
		for _, rank := range ranking.Ranks {
			wins, losses, ties, pct, ok := ParseRecordSummary(rank.RecordSummary)
			if !ok && logger != nil {
				logger.Warn("could not parse record summary",
					logging.FieldRecord, rank.RecordSummary,
					logging.FieldTeam, rank.Team.Abbreviation,
				)
			}
			name := rank.Team.Name
			if name == "" {
				name = rank.Team.DisplayName
			}
			poll.Entries = append(poll.Entries, domain.TeamRecord{
				Name:          name,
				Abbreviation:  rank.Team.Abbreviation,
				ID:            rank.Team.ID,
				Rank:          rank.Current,
				Wins:          wins,
				Losses:        losses,
				Ties:          ties,
				WinPercentage: pct,
				RecordSummary: rank.RecordSummary,
			})
		}
		polls = append(polls, poll)
	}
	return polls
}

// probeStandings runs the ordered shape probes against a standings response:
// a top-level entry list wins, then division/conference children. Anything
// else is tagged unrecognized rather than silently falling through. A
// standings block without an entries list does not count as the direct
// shape; the children probe still gets its turn.
func probeStandings(resp standingsResponse, leagueKey string) providers.StandingsResult {
	if resp.Standings != nil && resp.Standings.Entries != nil {
		return providers.StandingsResult{
			Shape:  providers.ShapeDirect,
			Groups: [][]domain.TeamRecord{extractEntries(resp.Standings.Entries, leagueKey)},
		}
	}

	if len(resp.Children) > 0 {
		groups := make([][]domain.TeamRecord, 0, len(resp.Children))
		for _, child := range resp.Children {
			groups = append(groups, extractEntries(child.Standings.Entries, leagueKey))
		}
		return providers.StandingsResult{Shape: providers.ShapeSectioned, Groups: groups}
	}

	return providers.StandingsResult{Shape: providers.ShapeUnrecognized}
}

func extractEntries(entries []entryJSON, leagueKey string) []domain.TeamRecord {
	out := make([]domain.TeamRecord, 0, len(entries))
	for _, entry := range entries {
		if record, ok := extractStanding(entry, leagueKey); ok {
			out = append(out, record)
		}
	}
	return out
}

func mapTeamSeeds(resp teamsResponse) []providers.TeamSeed {
	if len(resp.Sports) == 0 || len(resp.Sports[0].Leagues) == 0 {
		return nil
	}
	wrappers := resp.Sports[0].Leagues[0].Teams
	seeds := make([]providers.TeamSeed, 0, len(wrappers))
	for _, w := range wrappers {
		name := w.Team.Name
		if name == "" {
			name = w.Team.DisplayName
		}
		seeds = append(seeds, providers.TeamSeed{
			ID:           w.Team.ID,
			Name:         name,
			Abbreviation: w.Team.Abbreviation,
		})
	}
	return seeds
}
