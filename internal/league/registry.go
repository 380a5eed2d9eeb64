// Package league holds the static registry of supported leagues: which
// upstream endpoints serve them, how their standings are fetched, and their
// display defaults.
package league

import (
	"errors"
	"fmt"
)

// Strategy selects how a league's standings are assembled from the upstream
// API. The set is closed; fetch logic dispatches over it with a switch and
// never matches on league names.
type Strategy string

const (
	// StrategyRankingsPoll reads a named poll (e.g. AP Top 25) from the
	// rankings endpoint.
	StrategyRankingsPoll Strategy = "rankings"
	// StrategyDirectStandings reads the standings endpoint, trusting the
	// upstream sort for single-group responses.
	StrategyDirectStandings Strategy = "standings"
	// StrategyTeamsPlusRecord lists the league's teams and fetches each
	// team's record individually.
	StrategyTeamsPlusRecord Strategy = "teams"
)

// ErrUnknownLeague is returned by Describe for keys not in the registry. It
// signals a caller bug and is never retried.
var ErrUnknownLeague = errors.New("unknown league key")

const defaultSort = "winpercent:desc,gamesbehind:asc"

// Descriptor identifies one league and everything needed to fetch and display
// it. Descriptors are built once at registry construction and immutable
// afterwards.
type Descriptor struct {
	// Key is the upstream league slug, e.g. "nfl" or "college-football".
	Key         string
	DisplayName string
	// Sport is the upstream sport category used to build endpoint paths.
	Sport    string
	Strategy Strategy
	Enabled  bool
	// TopTeams caps how many teams are kept after sorting/truncation.
	TopTeams int
	// Sort is the server-side sort parameter for standings requests.
	Sort string
	// Level is the standings level parameter (1 = overall).
	Level int
	// Season is the upstream season year. Zero means unset: the parameter is
	// omitted from requests and cache payloads so the upstream picks the
	// current season.
	Season  int
	LogoDir string
}

// Override carries per-league configuration applied on top of the built-in
// table.
type Override struct {
	Enabled  *bool
	TopTeams int
	Season   int
	Level    int
	Sort     string
}

// Registry is a pure lookup table of league descriptors. No I/O, no failure
// modes beyond an unknown key.
type Registry struct {
	order   []string
	leagues map[string]Descriptor
}

// NewRegistry builds the registry from the built-in league table with the
// given per-league overrides applied.
func NewRegistry(overrides map[string]Override) (*Registry, error) {
	base := builtinLeagues()
	r := &Registry{
		order:   make([]string, 0, len(base)),
		leagues: make(map[string]Descriptor, len(base)),
	}
	for _, d := range base {
		r.order = append(r.order, d.Key)
		r.leagues[d.Key] = d
	}

	for key, ov := range overrides {
		d, ok := r.leagues[key]
		if !ok {
			return nil, fmt.Errorf("league %q: %w", key, ErrUnknownLeague)
		}
		if ov.Enabled != nil {
			d.Enabled = *ov.Enabled
		}
		if ov.TopTeams > 0 {
			d.TopTeams = ov.TopTeams
		}
		if ov.Season > 0 {
			d.Season = ov.Season
		}
		if ov.Level > 0 {
			d.Level = ov.Level
		}
		if ov.Sort != "" {
			d.Sort = ov.Sort
		}
		r.leagues[key] = d
	}
	return r, nil
}

// Describe looks up a league by key.
func (r *Registry) Describe(key string) (Descriptor, error) {
	d, ok := r.leagues[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("league %q: %w", key, ErrUnknownLeague)
	}
	return d, nil
}

// Enabled returns enabled leagues in stable table order.
func (r *Registry) Enabled() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		if d := r.leagues[key]; d.Enabled {
			out = append(out, d)
		}
	}
	return out
}

// Keys returns every registered league key in table order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func builtinLeagues() []Descriptor {
	return []Descriptor{
		{
			Key:         "nfl",
			DisplayName: "NFL",
			Sport:       "football",
			Strategy:    StrategyDirectStandings,
			Enabled:     true,
			TopTeams:    10,
			Sort:        defaultSort,
			Level:       1,
			LogoDir:     "nfl_logos",
		},
		{
			Key:         "nba",
			DisplayName: "NBA",
			Sport:       "basketball",
			Strategy:    StrategyTeamsPlusRecord,
			TopTeams:    10,
			LogoDir:     "nba_logos",
		},
		{
			Key:         "mlb",
			DisplayName: "MLB",
			Sport:       "baseball",
			Strategy:    StrategyDirectStandings,
			TopTeams:    10,
			Sort:        defaultSort,
			Level:       1,
			LogoDir:     "mlb_logos",
		},
		{
			Key:         "nhl",
			DisplayName: "NHL",
			Sport:       "hockey",
			Strategy:    StrategyDirectStandings,
			TopTeams:    10,
			Sort:        defaultSort,
			Level:       1,
			LogoDir:     "nhl_logos",
		},
		{
			Key:         "college-football",
			DisplayName: "NCAA Football",
			Sport:       "football",
			Strategy:    StrategyRankingsPoll,
			Enabled:     true,
			TopTeams:    25,
			LogoDir:     "ncaa_logos",
		},
		{
			Key:         "college-baseball",
			DisplayName: "NCAA Baseball",
			Sport:       "baseball",
			Strategy:    StrategyDirectStandings,
			TopTeams:    25,
			Sort:        defaultSort,
			Level:       1,
			LogoDir:     "ncaa_logos",
		},
		{
			Key:         "mens-college-basketball",
			DisplayName: "NCAA Basketball",
			Sport:       "basketball",
			Strategy:    StrategyRankingsPoll,
			TopTeams:    25,
			LogoDir:     "ncaa_logos",
		},
		{
			Key:         "womens-college-basketball",
			DisplayName: "NCAA Women's Basketball",
			Sport:       "basketball",
			Strategy:    StrategyRankingsPoll,
			TopTeams:    25,
			LogoDir:     "ncaa_womens_logos",
		},
		{
			Key:         "mens-college-hockey",
			DisplayName: "NCAA Hockey",
			Sport:       "hockey",
			Strategy:    StrategyRankingsPoll,
			Enabled:     true,
			TopTeams:    25,
			LogoDir:     "ncaa_logos",
		},
	}
}
