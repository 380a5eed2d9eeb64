package espn

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"standings-ticker/internal/league"
	"standings-ticker/internal/providers"
	"standings-ticker/internal/testutil"
)

func clientWith(t *testing.T, fn func(*http.Request) (*http.Response, error)) (*Client, *callCounts) {
	t.Helper()
	counts := &callCounts{}
	client := NewClient(Config{
		SiteBaseURL: "https://example.test/site",
		CoreBaseURL: "https://example.test/core",
		HTTPClient:  &http.Client{Transport: testutil.RoundTripperFunc(fn)},
		Counter:     counts.add,
	})
	return client, counts
}

type callCounts struct {
	mu    sync.Mutex
	total int
	kinds map[string]int
}

func (c *callCounts) add(kind string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kinds == nil {
		c.kinds = make(map[string]int)
	}
	c.kinds[kind] += count
	c.total += count
}

func nflDescriptor() league.Descriptor {
	return league.Descriptor{
		Key:   "nfl",
		Sport: "football",
		Level: 1,
		Sort:  "winpercent:desc,gamesbehind:asc",
	}
}

func TestRankingsRequestPath(t *testing.T) {
	var gotURL string
	client, counts := clientWith(t, func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.String()
		return testutil.JSONResponse(`{"rankings":[{"name":"AP Top 25","type":"ap","ranks":[]}]}`), nil
	})

	d := league.Descriptor{Key: "college-football", Sport: "football"}
	polls, err := client.Rankings(context.Background(), d)
	if err != nil {
		t.Fatalf("rankings failed: %v", err)
	}
	want := "https://example.test/site/sports/football/college-football/rankings"
	if gotURL != want {
		t.Fatalf("expected %s, got %s", want, gotURL)
	}
	if len(polls) != 1 || polls[0].Name != "AP Top 25" {
		t.Fatalf("unexpected polls: %+v", polls)
	}
	if counts.total != 1 || counts.kinds["sports"] != 1 {
		t.Fatalf("expected one counted call, got %+v", counts.kinds)
	}
}

func TestStandingsQueryParameters(t *testing.T) {
	var got *http.Request
	client, _ := clientWith(t, func(req *http.Request) (*http.Response, error) {
		got = req
		return testutil.JSONResponse(`{"standings":{"entries":[]}}`), nil
	})

	if _, err := client.Standings(context.Background(), nflDescriptor()); err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	q := got.URL.Query()
	if q.Get("level") != "1" {
		t.Fatalf("level missing: %s", got.URL.RawQuery)
	}
	if q.Get("sort") != "winpercent:desc,gamesbehind:asc" {
		t.Fatalf("sort missing: %s", got.URL.RawQuery)
	}
	if q.Has("season") {
		t.Fatalf("season must be omitted when unset: %s", got.URL.RawQuery)
	}
}

func TestStandingsSeasonSentWhenConfigured(t *testing.T) {
	var got *http.Request
	client, _ := clientWith(t, func(req *http.Request) (*http.Response, error) {
		got = req
		return testutil.JSONResponse(`{"standings":{"entries":[]}}`), nil
	})

	d := nflDescriptor()
	d.Season = 2024
	if _, err := client.Standings(context.Background(), d); err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if got.URL.Query().Get("season") != "2024" {
		t.Fatalf("season missing: %s", got.URL.RawQuery)
	}
}

func TestStandingsUsesCoreBase(t *testing.T) {
	var gotURL string
	client, _ := clientWith(t, func(req *http.Request) (*http.Response, error) {
		gotURL = req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
		return testutil.JSONResponse(`{"standings":{"entries":[]}}`), nil
	})

	if _, err := client.Standings(context.Background(), nflDescriptor()); err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	want := "https://example.test/core/sports/football/nfl/standings"
	if gotURL != want {
		t.Fatalf("expected %s, got %s", want, gotURL)
	}
}

func TestNon2xxReturnsUpstreamError(t *testing.T) {
	client, counts := clientWith(t, func(req *http.Request) (*http.Response, error) {
		return testutil.StatusResponse(http.StatusBadGateway), nil
	})

	_, err := client.Rankings(context.Background(), league.Descriptor{Key: "nfl", Sport: "football"})
	ue, ok := providers.AsUpstreamError(err)
	if !ok {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusBadGateway || ue.League != "nfl" {
		t.Fatalf("unexpected error detail: %+v", ue)
	}
	if counts.total != 0 {
		t.Fatal("failed calls must not be counted")
	}
}

func TestMalformedJSONReturnsUpstreamError(t *testing.T) {
	client, counts := clientWith(t, func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(`{"rankings": [`), nil
	})

	_, err := client.Rankings(context.Background(), league.Descriptor{Key: "nfl", Sport: "football"})
	if _, ok := providers.AsUpstreamError(err); !ok {
		t.Fatalf("expected UpstreamError for truncated body, got %v", err)
	}
	if counts.total != 0 {
		t.Fatal("failed decodes must not be counted")
	}
}

func TestTeamsEmptyResponseIsSchemaError(t *testing.T) {
	client, _ := clientWith(t, func(req *http.Request) (*http.Response, error) {
		return testutil.JSONResponse(`{}`), nil
	})

	_, err := client.Teams(context.Background(), league.Descriptor{Key: "nba", Sport: "basketball"})
	se, ok := providers.AsSchemaError(err)
	if !ok {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.League != "nba" {
		t.Fatalf("unexpected league: %+v", se)
	}
}

func TestTeamRecordPathEscapesAbbreviation(t *testing.T) {
	var gotPath string
	client, _ := clientWith(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return testutil.JSONResponse(`{"team":{"abbreviation":"BOS","stats":[{"name":"wins","value":50},{"name":"losses","value":25}]}}`), nil
	})

	record, err := client.TeamRecord(context.Background(), league.Descriptor{Key: "nba", Sport: "basketball"}, "BOS")
	if err != nil {
		t.Fatalf("team record failed: %v", err)
	}
	if gotPath != "/site/sports/basketball/nba/teams/BOS" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if record.Wins != 50 || record.Losses != 25 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestBaseURLDefaultsAndTrailingSlash(t *testing.T) {
	client := NewClient(Config{SiteBaseURL: "https://example.test/site/"})
	if client.siteBase != "https://example.test/site" {
		t.Fatalf("trailing slash not trimmed: %s", client.siteBase)
	}
	if client.coreBase != defaultCoreBaseURL {
		t.Fatalf("expected default core base, got %s", client.coreBase)
	}
}
