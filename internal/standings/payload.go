package standings

import (
	"fmt"

	"standings-ticker/internal/domain"
)

// sectionPayload is the cache body for one league's standings. Season and
// level appear only when they were part of the request; in particular an
// unset season is omitted entirely so a cached payload never invents one.
type sectionPayload struct {
	Standings   []domain.TeamRecord `json:"standings"`
	Timestamp   int64               `json:"timestamp"`
	League      string              `json:"league"`
	RankingName string              `json:"ranking_name,omitempty"`
	Level       int                 `json:"level,omitempty"`
	Season      int                 `json:"season,omitempty"`
}

// recordPayload is the cache body for one team's individual record.
type recordPayload struct {
	Record    domain.Record `json:"record"`
	Timestamp int64         `json:"timestamp"`
	Team      string        `json:"team"`
	League    string        `json:"league"`
}

const (
	suffixRankings  = "rankings"
	suffixStandings = "standings"
)

// sectionKey derives the cache key for a league's section. The suffix keeps
// rankings and standings payloads from ever colliding; the teams flow uses
// the bare league key.
func sectionKey(leagueKey, suffix string) string {
	if suffix == "" {
		return "standings:" + leagueKey
	}
	return fmt.Sprintf("standings:%s:%s", leagueKey, suffix)
}

func teamRecordKey(leagueKey, abbreviation string) string {
	return fmt.Sprintf("team_record:%s:%s", leagueKey, abbreviation)
}
