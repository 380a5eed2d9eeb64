// Package espn fetches standings, rankings, and team records from the public
// ESPN site API and normalizes them into domain models.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
	"standings-ticker/internal/providers"
)

// Config controls how the client reaches the upstream API.
type Config struct {
	SiteBaseURL string
	CoreBaseURL string
	HTTPClient  *http.Client
	Timeout     time.Duration
	Counter     providers.CallCounter
	Logger      *slog.Logger
}

// Client implements providers.StandingsSource against the ESPN site API.
type Client struct {
	siteBase   string
	coreBase   string
	httpClient httpDoer
	counter    providers.CallCounter
	logger     *slog.Logger
}

// NewClient constructs a Client with the provided configuration.
func NewClient(cfg Config) *Client {
	counter := cfg.Counter
	if counter == nil {
		counter = providers.NopCounter
	}
	return &Client{
		siteBase:   normalizeBaseURL(cfg.SiteBaseURL, defaultSiteBaseURL),
		coreBase:   normalizeBaseURL(cfg.CoreBaseURL, defaultCoreBaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		counter:    counter,
		logger:     cfg.Logger,
	}
}

// Rankings retrieves the named polls for a league.
func (c *Client) Rankings(ctx context.Context, d league.Descriptor) ([]providers.Poll, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/%s/rankings", c.siteBase, d.Sport, d.Key)

	var resp rankingsResponse
	if err := c.getJSON(ctx, d.Key, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return mapPolls(resp, c.logger), nil
}

// Standings retrieves the standings table for a league and classifies its
// layout. The level and sort parameters come from the descriptor; season is
// sent only when explicitly configured so the upstream defaults to the
// current season otherwise.
func (c *Client) Standings(ctx context.Context, d league.Descriptor) (providers.StandingsResult, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/%s/standings", c.coreBase, d.Sport, d.Key)

	query := url.Values{}
	query.Set("level", strconv.Itoa(d.Level))
	query.Set("sort", d.Sort)
	if d.Season != 0 {
		query.Set("season", strconv.Itoa(d.Season))
	}

	var resp standingsResponse
	if err := c.getJSON(ctx, d.Key, endpoint, query, &resp); err != nil {
		return providers.StandingsResult{}, err
	}
	return probeStandings(resp, d.Key), nil
}

// Teams lists the league roster from the teams endpoint.
func (c *Client) Teams(ctx context.Context, d league.Descriptor) ([]providers.TeamSeed, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/%s/teams", c.siteBase, d.Sport, d.Key)

	var resp teamsResponse
	if err := c.getJSON(ctx, d.Key, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	seeds := mapTeamSeeds(resp)
	if seeds == nil {
		return nil, &providers.SchemaError{League: d.Key, Endpoint: endpoint, Detail: "no teams data found"}
	}
	return seeds, nil
}

// TeamRecord fetches one team's current record.
func (c *Client) TeamRecord(ctx context.Context, d league.Descriptor, abbreviation string) (domain.Record, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/%s/teams/%s", c.siteBase, d.Sport, d.Key, url.PathEscape(abbreviation))

	var resp teamDetailResponse
	if err := c.getJSON(ctx, d.Key, endpoint, nil, &resp); err != nil {
		return domain.Record{}, err
	}
	return extractTeamRecord(resp.Team), nil
}

func (c *Client) getJSON(ctx context.Context, leagueKey, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &providers.UpstreamError{League: leagueKey, Endpoint: endpoint, Err: err}
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &providers.UpstreamError{League: leagueKey, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &providers.UpstreamError{
			League:     leagueKey,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", sourceName, strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &providers.UpstreamError{League: leagueKey, Endpoint: endpoint, Err: err}
	}

	c.counter(counterKind, 1)
	return nil
}
