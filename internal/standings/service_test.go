package standings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
	"standings-ticker/internal/providers"
	"standings-ticker/internal/testutil"
)

func rankingsDescriptor() league.Descriptor {
	return league.Descriptor{
		Key:         "college-football",
		DisplayName: "NCAA Football",
		Sport:       "football",
		Strategy:    league.StrategyRankingsPoll,
		TopTeams:    25,
	}
}

func standingsDescriptor() league.Descriptor {
	return league.Descriptor{
		Key:         "nfl",
		DisplayName: "NFL",
		Sport:       "football",
		Strategy:    league.StrategyDirectStandings,
		TopTeams:    10,
		Sort:        "winpercent:desc,gamesbehind:asc",
		Level:       1,
	}
}

func teamsDescriptor() league.Descriptor {
	return league.Descriptor{
		Key:         "nba",
		DisplayName: "NBA",
		Sport:       "basketball",
		Strategy:    league.StrategyTeamsPlusRecord,
		TopTeams:    10,
	}
}

func namedTeams(names ...string) []domain.TeamRecord {
	out := make([]domain.TeamRecord, 0, len(names))
	for i, name := range names {
		abbr := name
		if len(abbr) > 3 {
			abbr = abbr[:3]
		}
		out = append(out, domain.TeamRecord{
			Name:          name,
			Abbreviation:  strings.ToUpper(abbr),
			Wins:          20 - i,
			Losses:        i,
			WinPercentage: domain.WinPercentage(20-i, i, 0),
		})
	}
	return out
}

func TestRankingsPollPrefersAPTop25(t *testing.T) {
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return []providers.Poll{
				{Name: "Coaches Poll", Type: "usa", Entries: namedTeams("georgia", "texas")},
				{Name: "AP Top 25", Type: "ap", Entries: namedTeams("michigan", "alabama")},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), rankingsDescriptor())
	if section.RankingName != "AP Top 25" {
		t.Fatalf("expected AP Top 25 selected, got %q", section.RankingName)
	}
	if len(section.Teams) != 2 || section.Teams[0].Name != "michigan" {
		t.Fatalf("unexpected teams: %+v", section.Teams)
	}
	for _, team := range section.Teams {
		if team.RankingName != "AP Top 25" {
			t.Fatalf("ranking name not stamped on team: %+v", team)
		}
	}
}

func TestRankingsPollMatchesTypeAP(t *testing.T) {
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return []providers.Poll{
				{Name: "Coaches Poll", Type: "usa", Entries: namedTeams("georgia")},
				{Name: "Associated Press", Type: "AP", Entries: namedTeams("ohio state")},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), rankingsDescriptor())
	if section.RankingName != "Associated Press" {
		t.Fatalf("expected type match, got %q", section.RankingName)
	}
}

func TestRankingsPollFallsBackToFirstPoll(t *testing.T) {
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return []providers.Poll{
				{Name: "USCHO Poll", Entries: namedTeams("denver", "bu")},
				{Name: "Pairwise", Entries: namedTeams("bc")},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), rankingsDescriptor())
	if section.RankingName != "USCHO Poll" || len(section.Teams) != 2 {
		t.Fatalf("expected first poll fallback, got %q with %d teams", section.RankingName, len(section.Teams))
	}
}

func TestRankingsPollZeroPollsNothingCached(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return nil, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), rankingsDescriptor())
	if len(section.Teams) != 0 {
		t.Fatalf("expected empty section, got %d teams", len(section.Teams))
	}
	if len(gateway.Puts()) != 0 {
		t.Fatalf("nothing should be cached, wrote %v", gateway.Puts())
	}
}

func TestRankingsPollTruncatesPreservingPollOrder(t *testing.T) {
	// Poll order is deliberately not win-percentage order; it must survive.
	entries := []domain.TeamRecord{
		{Name: "one", Rank: 1, WinPercentage: 0.5},
		{Name: "two", Rank: 2, WinPercentage: 0.9},
		{Name: "three", Rank: 3, WinPercentage: 0.7},
	}
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return []providers.Poll{{Name: "AP Top 25", Type: "ap", Entries: entries}}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	d := rankingsDescriptor()
	d.TopTeams = 2
	section := svc.Section(context.Background(), d)
	if len(section.Teams) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(section.Teams))
	}
	if section.Teams[0].Name != "one" || section.Teams[1].Name != "two" {
		t.Fatalf("poll order not preserved: %+v", section.Teams)
	}
}

func TestCacheHitReturnsPayloadVerbatim(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		RankingsFn: func(context.Context, league.Descriptor) ([]providers.Poll, error) {
			return []providers.Poll{{Name: "AP Top 25", Type: "ap", Entries: namedTeams("michigan", "alabama")}}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)
	d := rankingsDescriptor()

	first := svc.Section(context.Background(), d)
	cached, ok := gateway.Payload("standings:college-football:rankings")
	if !ok {
		t.Fatal("expected write-through after first fetch")
	}

	second := svc.Section(context.Background(), d)
	if source.RankingsCalls != 1 {
		t.Fatalf("second call should hit the cache, source called %d times", source.RankingsCalls)
	}

	firstJSON, _ := json.Marshal(first.Teams)
	secondJSON, _ := json.Marshal(second.Teams)
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Fatalf("cached result differs:\n%s\n%s", firstJSON, secondJSON)
	}

	var payload sectionPayload
	if err := json.Unmarshal(cached, &payload); err != nil {
		t.Fatalf("cached payload unreadable: %v", err)
	}
	if payload.RankingName != "AP Top 25" || payload.Timestamp == 0 {
		t.Fatalf("payload missing metadata: %+v", payload)
	}
}

func TestDirectStandingsTrustsSingleGroupOrder(t *testing.T) {
	// Hypothetically mis-sorted upstream order must be preserved verbatim.
	ascending := []domain.TeamRecord{
		{Name: "worst", WinPercentage: 0.1},
		{Name: "middle", WinPercentage: 0.5},
		{Name: "best", WinPercentage: 0.9},
	}
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeDirect,
				Groups: [][]domain.TeamRecord{ascending},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if section.Teams[0].Name != "worst" || section.Teams[2].Name != "best" {
		t.Fatalf("single-group order must be trusted: %+v", section.Teams)
	}
}

func TestDirectStandingsResortsMultipleGroups(t *testing.T) {
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape: providers.ShapeSectioned,
				Groups: [][]domain.TeamRecord{
					{{Name: "east1", WinPercentage: 0.6}, {Name: "east2", WinPercentage: 0.3}},
					{{Name: "west1", WinPercentage: 0.8}, {Name: "west2", WinPercentage: 0.5}},
				},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	want := []string{"west1", "east1", "west2", "east2"}
	for i, name := range want {
		if section.Teams[i].Name != name {
			t.Fatalf("expected global sort %v, got %+v", want, section.Teams)
		}
	}
}

func TestDirectStandingsSingleChildTrusted(t *testing.T) {
	sectioned := []domain.TeamRecord{
		{Name: "low", WinPercentage: 0.2},
		{Name: "high", WinPercentage: 0.8},
	}
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeSectioned,
				Groups: [][]domain.TeamRecord{sectioned},
			}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if section.Teams[0].Name != "low" {
		t.Fatalf("single sub-group must be trusted verbatim: %+v", section.Teams)
	}
}

func TestDirectStandingsTruncatesToTopN(t *testing.T) {
	group := make([]domain.TeamRecord, 30)
	for i := range group {
		group[i] = domain.TeamRecord{Name: string(rune('a' + i)), WinPercentage: 1 - float64(i)/30}
	}
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{Shape: providers.ShapeDirect, Groups: [][]domain.TeamRecord{group}}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if len(section.Teams) != 10 {
		t.Fatalf("expected 10 teams, got %d", len(section.Teams))
	}
	for i := range section.Teams {
		if section.Teams[i].Name != group[i].Name {
			t.Fatal("truncation must keep the first N in final order")
		}
	}
}

func TestDirectStandingsUnrecognizedShapeNotCached(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{Shape: providers.ShapeUnrecognized}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if len(section.Teams) != 0 {
		t.Fatalf("expected empty section, got %+v", section.Teams)
	}
	if len(gateway.Puts()) != 0 {
		t.Fatalf("schema failures must not be cached, wrote %v", gateway.Puts())
	}
}

func TestDirectStandingsZeroEntriesNotCached(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeDirect,
				Groups: [][]domain.TeamRecord{{}},
			}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if len(section.Teams) != 0 || len(gateway.Puts()) != 0 {
		t.Fatalf("zero extracted entries must degrade to empty with no cache write")
	}
}

func TestDirectStandingsUpstreamErrorNotCached(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{}, &providers.UpstreamError{League: "nfl", StatusCode: 503}
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if len(section.Teams) != 0 || len(gateway.Puts()) != 0 {
		t.Fatal("upstream failure must degrade to empty with no cache write")
	}

	// The next call retries because nothing was cached.
	svc.Section(context.Background(), standingsDescriptor())
	if source.StandingsCalls != 2 {
		t.Fatalf("expected retry on next cycle, source called %d times", source.StandingsCalls)
	}
}

func TestDirectStandingsSeasonOmittedFromPayloadWhenUnset(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeDirect,
				Groups: [][]domain.TeamRecord{namedTeams("buffalo")},
			}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	svc.Section(context.Background(), standingsDescriptor())
	payload, ok := gateway.Payload("standings:nfl:standings")
	if !ok {
		t.Fatal("expected cache write")
	}
	if bytes.Contains(payload, []byte(`"season"`)) {
		t.Fatalf("season must be omitted when unset: %s", payload)
	}
	if !bytes.Contains(payload, []byte(`"level":1`)) {
		t.Fatalf("level must be carried: %s", payload)
	}
}

func TestDirectStandingsSeasonCarriedWhenConfigured(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeDirect,
				Groups: [][]domain.TeamRecord{namedTeams("buffalo")},
			}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	d := standingsDescriptor()
	d.Season = 2024
	svc.Section(context.Background(), d)

	payload, _ := gateway.Payload("standings:nfl:standings")
	if !bytes.Contains(payload, []byte(`"season":2024`)) {
		t.Fatalf("configured season must be cached: %s", payload)
	}
}

func TestTeamsPlusRecordDropsFailedTeams(t *testing.T) {
	source := &testutil.StubSource{
		TeamsFn: func(context.Context, league.Descriptor) ([]providers.TeamSeed, error) {
			return []providers.TeamSeed{
				{ID: "1", Name: "Alphas", Abbreviation: "AAA"},
				{ID: "2", Name: "Betas", Abbreviation: "BBB"},
				{ID: "3", Name: "Gammas", Abbreviation: "CCC"},
			}, nil
		},
		TeamRecordFn: func(_ context.Context, _ league.Descriptor, abbr string) (domain.Record, error) {
			switch abbr {
			case "AAA":
				return domain.Record{Wins: 10, Losses: 10, WinPercentage: 0.5}, nil
			case "BBB":
				return domain.Record{}, &providers.UpstreamError{League: "nba", StatusCode: 500}
			case "CCC":
				return domain.Record{Wins: 15, Losses: 5, WinPercentage: 0.75}, nil
			}
			return domain.Record{}, errors.New("unexpected team")
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), teamsDescriptor())
	if len(section.Teams) != 2 {
		t.Fatalf("expected 2 teams after dropping the failure, got %d", len(section.Teams))
	}
	if section.Teams[0].Abbreviation != "CCC" || section.Teams[1].Abbreviation != "AAA" {
		t.Fatalf("expected win-percentage descending, got %+v", section.Teams)
	}
	if section.Teams[0].RecordSummary != "15-5" {
		t.Fatalf("record summary not derived: %+v", section.Teams[0])
	}
}

func TestTeamsPlusRecordSkipsEmptyAbbreviations(t *testing.T) {
	source := &testutil.StubSource{
		TeamsFn: func(context.Context, league.Descriptor) ([]providers.TeamSeed, error) {
			return []providers.TeamSeed{
				{ID: "1", Name: "Named", Abbreviation: "NMD"},
				{ID: "2", Name: "Nameless"},
			}, nil
		},
		TeamRecordFn: func(_ context.Context, _ league.Descriptor, abbr string) (domain.Record, error) {
			return domain.Record{Wins: 1, Losses: 1, WinPercentage: 0.5}, nil
		},
	}
	svc := New(source, testutil.NewFakeGateway(), testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), teamsDescriptor())
	if len(section.Teams) != 1 || source.TeamRecordCalls != 1 {
		t.Fatalf("teams without abbreviations must be skipped before the nested fetch: %+v", section.Teams)
	}
}

func TestTeamsPlusRecordUsesNestedCache(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	seeded := recordPayload{
		Record: domain.Record{Wins: 40, Losses: 2, WinPercentage: 40.0 / 42.0},
		Team:   "AAA",
		League: "nba",
	}
	raw, _ := json.Marshal(seeded)
	gateway.Seed("team_record:nba:AAA", raw)

	source := &testutil.StubSource{
		TeamsFn: func(context.Context, league.Descriptor) ([]providers.TeamSeed, error) {
			return []providers.TeamSeed{{ID: "1", Name: "Alphas", Abbreviation: "AAA"}}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), teamsDescriptor())
	if source.TeamRecordCalls != 0 {
		t.Fatal("nested record should come from its cache entry")
	}
	if len(section.Teams) != 1 || section.Teams[0].Wins != 40 {
		t.Fatalf("unexpected section: %+v", section.Teams)
	}
}

func TestTeamsPlusRecordCacheKeyHasNoSuffix(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	source := &testutil.StubSource{
		TeamsFn: func(context.Context, league.Descriptor) ([]providers.TeamSeed, error) {
			return []providers.TeamSeed{{ID: "1", Name: "Alphas", Abbreviation: "AAA"}}, nil
		},
		TeamRecordFn: func(context.Context, league.Descriptor, string) (domain.Record, error) {
			return domain.Record{Wins: 3, Losses: 1, WinPercentage: 0.75}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)
	svc.Section(context.Background(), teamsDescriptor())

	if _, ok := gateway.Payload("standings:nba"); !ok {
		t.Fatalf("expected section under bare league key, wrote %v", gateway.Puts())
	}
	if _, ok := gateway.Payload("team_record:nba:AAA"); !ok {
		t.Fatalf("expected nested record entry, wrote %v", gateway.Puts())
	}
}

func TestCorruptCachePayloadTreatedAsMiss(t *testing.T) {
	gateway := testutil.NewFakeGateway()
	gateway.Seed("standings:nfl:standings", []byte("{not json"))

	source := &testutil.StubSource{
		StandingsFn: func(context.Context, league.Descriptor) (providers.StandingsResult, error) {
			return providers.StandingsResult{
				Shape:  providers.ShapeDirect,
				Groups: [][]domain.TeamRecord{namedTeams("buffalo")},
			}, nil
		},
	}
	svc := New(source, gateway, testutil.SilentLogger(), nil)

	section := svc.Section(context.Background(), standingsDescriptor())
	if len(section.Teams) != 1 || source.StandingsCalls != 1 {
		t.Fatal("corrupt payload should fall through to a fresh fetch")
	}
}
