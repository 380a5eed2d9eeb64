// Package standings assembles normalized league sections from the upstream
// source, one fetch strategy per league class, with read-through and
// write-through caching on every path.
package standings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"standings-ticker/internal/cache"
	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
	"standings-ticker/internal/logging"
	"standings-ticker/internal/metrics"
	"standings-ticker/internal/providers"
)

// Service fetches and caches standings for configured leagues. All failures
// are contained here: Section never returns an error, only a section with
// zero or more teams, so one league's outage cannot block the others.
type Service struct {
	source  providers.StandingsSource
	cache   cache.Gateway
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// New constructs a Service. The gateway and source are required; logger and
// recorder may be nil.
func New(source providers.StandingsSource, gateway cache.Gateway, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		source:  source,
		cache:   gateway,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// Section fetches one league's section, dispatching on the descriptor's
// fetch strategy.
func (s *Service) Section(ctx context.Context, d league.Descriptor) domain.LeagueSection {
	start := time.Now()

	var (
		teams       []domain.TeamRecord
		rankingName string
		err         error
	)
	switch d.Strategy {
	case league.StrategyRankingsPoll:
		teams, rankingName, err = s.rankingsPoll(ctx, d)
	case league.StrategyDirectStandings:
		teams, err = s.directStandings(ctx, d)
	case league.StrategyTeamsPlusRecord:
		teams, err = s.teamsPlusRecord(ctx, d)
	default:
		err = fmt.Errorf("league %s: unsupported fetch strategy %q", d.Key, d.Strategy)
	}

	s.metrics.RecordFetch(d.Key, time.Since(start), err)

	if err != nil {
		if _, ok := providers.AsSchemaError(err); ok {
			logging.Error(s.logger, "standings response did not match any known shape", err,
				logging.FieldLeague, d.Key)
		} else {
			logging.Error(s.logger, "standings fetch failed", err, logging.FieldLeague, d.Key)
		}
		return domain.LeagueSection{LeagueKey: d.Key, LeagueName: d.DisplayName}
	}

	return domain.LeagueSection{
		LeagueKey:   d.Key,
		LeagueName:  d.DisplayName,
		RankingName: rankingName,
		Teams:       teams,
	}
}

// rankingsPoll reads a league's poll rankings: pick the AP poll when one is
// present, keep poll order verbatim, truncate, cache.
func (s *Service) rankingsPoll(ctx context.Context, d league.Descriptor) ([]domain.TeamRecord, string, error) {
	key := sectionKey(d.Key, suffixRankings)
	if payload, ok := s.cachedSection(key, d.Key); ok {
		return payload.Standings, payload.RankingName, nil
	}

	polls, err := s.source.Rankings(ctx, d)
	if err != nil {
		return nil, "", err
	}
	if len(polls) == 0 {
		logging.Warn(s.logger, "no rankings data found", logging.FieldLeague, d.Key)
		return nil, "", nil
	}

	poll, preferred := selectPoll(polls)
	if !preferred {
		logging.Warn(s.logger, "preferred poll not found, using first available ranking",
			logging.FieldLeague, d.Key, logging.FieldPoll, poll.Name)
	}

	teams := make([]domain.TeamRecord, 0, len(poll.Entries))
	for _, entry := range poll.Entries {
		entry.RankingName = poll.Name
		teams = append(teams, entry)
	}
	// Poll order is rank order; never re-sort by computed fields.
	teams = truncate(teams, d.TopTeams)

	s.writeSection(key, sectionPayload{
		Standings:   teams,
		Timestamp:   s.now().Unix(),
		League:      d.Key,
		RankingName: poll.Name,
	})
	logging.Info(s.logger, "fetched and cached rankings",
		logging.FieldLeague, d.Key, logging.FieldPoll, poll.Name, logging.FieldCount, len(teams))
	return teams, poll.Name, nil
}

// selectPoll prefers an AP Top-N poll by name or type; otherwise the first
// poll in response order.
func selectPoll(polls []providers.Poll) (providers.Poll, bool) {
	for _, poll := range polls {
		name := strings.ToLower(poll.Name)
		if (strings.Contains(name, "ap") && strings.Contains(name, "top")) ||
			strings.EqualFold(poll.Type, "ap") {
			return poll, true
		}
	}
	return polls[0], false
}

// directStandings reads a league's standings endpoint. A direct single-list
// response is already sorted server-side and is trusted verbatim; entries
// combined from multiple divisions/conferences lose that global order and
// are re-sorted by win percentage.
func (s *Service) directStandings(ctx context.Context, d league.Descriptor) ([]domain.TeamRecord, error) {
	key := sectionKey(d.Key, suffixStandings)
	if payload, ok := s.cachedSection(key, d.Key); ok {
		return payload.Standings, nil
	}

	result, err := s.source.Standings(ctx, d)
	if err != nil {
		return nil, err
	}
	if result.Shape == providers.ShapeUnrecognized {
		return nil, &providers.SchemaError{League: d.Key, Detail: "no recognized standings layout"}
	}

	entries := result.Entries()
	if len(entries) == 0 {
		return nil, &providers.SchemaError{League: d.Key, Detail: "zero standings entries extracted"}
	}

	if result.Shape == providers.ShapeSectioned && len(result.Groups) > 1 {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].WinPercentage > entries[j].WinPercentage
		})
	}

	teams := truncate(entries, d.TopTeams)

	s.writeSection(key, sectionPayload{
		Standings: teams,
		Timestamp: s.now().Unix(),
		League:    d.Key,
		Level:     d.Level,
		Season:    d.Season,
	})
	logging.Info(s.logger, "fetched and cached standings",
		logging.FieldLeague, d.Key, logging.FieldCount, len(teams))
	return teams, nil
}

// teamsPlusRecord lists the league roster and fetches each team's record
// individually, each behind its own cache entry. Teams whose record fetch
// fails are dropped before sorting and truncation; a partial section is
// acceptable.
func (s *Service) teamsPlusRecord(ctx context.Context, d league.Descriptor) ([]domain.TeamRecord, error) {
	key := sectionKey(d.Key, "")
	if payload, ok := s.cachedSection(key, d.Key); ok {
		return payload.Standings, nil
	}

	seeds, err := s.source.Teams(ctx, d)
	if err != nil {
		return nil, err
	}

	teams := make([]domain.TeamRecord, 0, len(seeds))
	for _, seed := range seeds {
		if seed.Abbreviation == "" {
			continue
		}
		record, err := s.teamRecord(ctx, d, seed.Abbreviation)
		if err != nil {
			logging.Warn(s.logger, "team record fetch failed, dropping team",
				logging.FieldLeague, d.Key, logging.FieldTeam, seed.Abbreviation, "error", err)
			continue
		}
		teams = append(teams, domain.TeamRecord{
			Name:          seed.Name,
			Abbreviation:  seed.Abbreviation,
			ID:            seed.ID,
			Wins:          record.Wins,
			Losses:        record.Losses,
			Ties:          record.Ties,
			WinPercentage: record.WinPercentage,
			RecordSummary: domain.FormatRecordSummary(record.Wins, record.Losses, record.Ties),
		})
	}

	// There is no upstream order to trust here.
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].WinPercentage > teams[j].WinPercentage
	})
	teams = truncate(teams, d.TopTeams)

	s.writeSection(key, sectionPayload{
		Standings: teams,
		Timestamp: s.now().Unix(),
		League:    d.Key,
	})
	logging.Info(s.logger, "fetched and cached team records",
		logging.FieldLeague, d.Key, logging.FieldCount, len(teams))
	return teams, nil
}

// teamRecord resolves one team's record through its own read/write-through
// cache entry.
func (s *Service) teamRecord(ctx context.Context, d league.Descriptor, abbreviation string) (domain.Record, error) {
	key := teamRecordKey(d.Key, abbreviation)
	if raw, ok := s.cache.GetIfFresh(key, cache.NamespaceTeamRecord); ok {
		var payload recordPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			s.metrics.RecordCacheHit(cache.NamespaceTeamRecord)
			return payload.Record, nil
		}
		logging.Warn(s.logger, "discarding unreadable cache payload", logging.FieldCacheKey, key)
	}
	s.metrics.RecordCacheMiss(cache.NamespaceTeamRecord)

	record, err := s.source.TeamRecord(ctx, d, abbreviation)
	if err != nil {
		return domain.Record{}, err
	}

	raw, err := json.Marshal(recordPayload{
		Record:    record,
		Timestamp: s.now().Unix(),
		Team:      abbreviation,
		League:    d.Key,
	})
	if err == nil {
		if putErr := s.cache.Put(key, raw); putErr != nil {
			logging.Warn(s.logger, "cache write failed", logging.FieldCacheKey, key, "error", putErr)
		}
	}
	return record, nil
}

// cachedSection returns a league's cached payload verbatim when fresh: no
// re-sort, no re-filter, so a hit is byte-for-byte what the last successful
// fetch stored.
func (s *Service) cachedSection(key, leagueKey string) (sectionPayload, bool) {
	raw, ok := s.cache.GetIfFresh(key, cache.NamespaceStandings)
	if !ok {
		s.metrics.RecordCacheMiss(cache.NamespaceStandings)
		return sectionPayload{}, false
	}

	var payload sectionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		logging.Warn(s.logger, "discarding unreadable cache payload",
			logging.FieldLeague, leagueKey, logging.FieldCacheKey, key)
		s.metrics.RecordCacheMiss(cache.NamespaceStandings)
		return sectionPayload{}, false
	}

	s.metrics.RecordCacheHit(cache.NamespaceStandings)
	logging.Info(s.logger, "using cached standings",
		logging.FieldLeague, leagueKey, logging.FieldCount, len(payload.Standings))
	return payload, true
}

func (s *Service) writeSection(key string, payload sectionPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logging.Warn(s.logger, "cache payload marshal failed", logging.FieldCacheKey, key, "error", err)
		return
	}
	if err := s.cache.Put(key, raw); err != nil {
		logging.Warn(s.logger, "cache write failed", logging.FieldCacheKey, key, "error", err)
	}
}

func truncate(teams []domain.TeamRecord, topN int) []domain.TeamRecord {
	if topN > 0 && len(teams) > topN {
		return teams[:topN]
	}
	return teams
}
