package domain

import "fmt"

// TeamRecord is the normalized standing for one team. Records are built fresh
// on every successful fetch and never mutated afterwards; they travel either
// inside a cache payload or as members of a LeagueSection.
type TeamRecord struct {
	Name          string  `json:"name"`
	Abbreviation  string  `json:"abbreviation"`
	ID            string  `json:"id,omitempty"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	WinPercentage float64 `json:"win_percentage"`
	Rank          int     `json:"rank,omitempty"`
	RecordSummary string  `json:"record_summary,omitempty"`
	RankingName   string  `json:"ranking_name,omitempty"`
}

// Record is a team's bare win/loss line, as returned by a per-team lookup.
type Record struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	WinPercentage float64 `json:"win_percentage"`
}

// LeagueSection is one cache/display unit: a league's top teams in final
// order, ready for the render adapter.
type LeagueSection struct {
	LeagueKey   string       `json:"league"`
	LeagueName  string       `json:"league_name,omitempty"`
	RankingName string       `json:"ranking_name,omitempty"`
	Teams       []TeamRecord `json:"teams"`
}

// WinPercentage derives a win rate from a raw record, returning 0 when no
// games have been played.
func WinPercentage(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// FormatRecordSummary renders a record as "W-L", or "W-L-T" when ties were
// played.
func FormatRecordSummary(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}
