package espn

import (
	"strconv"
	"strings"

	"standings-ticker/internal/domain"
)

// ParseRecordSummary parses a record string like "12-4" or "10-2-1" into its
// components and derived win percentage. Malformed input (fewer than two
// parts, or any non-numeric part) yields all zeros with ok=false so the
// caller can log a parse warning; extraction never aborts on it.
func ParseRecordSummary(summary string) (wins, losses, ties int, pct float64, ok bool) {
	parts := strings.Split(summary, "-")
	if len(parts) < 2 {
		return 0, 0, 0, 0, false
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w < 0 {
		return 0, 0, 0, 0, false
	}
	l, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || l < 0 {
		return 0, 0, 0, 0, false
	}
	t := 0
	if len(parts) == 3 {
		t, err = strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || t < 0 {
			return 0, 0, 0, 0, false
		}
	}

	return w, l, t, domain.WinPercentage(w, l, t), true
}

// extractStanding converts one standings entry's heterogeneous stat list into
// a TeamRecord. Stats are keyed by type; unrecognized keys are ignored. For
// ice hockey, "overtimelosses" maps onto ties and "gamesplayed" serves as a
// fallback win-percentage denominator when the upstream did not supply
// winpercent. A supplied winpercent always takes precedence over derivation,
// even when it disagrees with simple division.
func extractStanding(entry entryJSON, leagueKey string) (domain.TeamRecord, bool) {
	if entry.Team == (teamJSON{}) {
		return domain.TeamRecord{}, false
	}

	var (
		wins, losses, ties int
		winPercentage      float64
		gamesPlayed        float64
	)

	hockey := leagueKey == "nhl"

	for _, stat := range entry.Stats {
		switch stat.Type {
		case "wins":
			wins = int(stat.Value)
		case "losses":
			losses = int(stat.Value)
		case "ties":
			ties = int(stat.Value)
		case "winpercent":
			winPercentage = stat.Value
		case "overtimelosses":
			if hockey {
				ties = int(stat.Value)
			}
		case "gamesplayed":
			if hockey {
				gamesPlayed = stat.Value
			}
		}
	}

	if hockey && winPercentage == 0 && gamesPlayed > 0 {
		winPercentage = float64(wins) / gamesPlayed
	}
	if winPercentage == 0 && gamesPlayed == 0 {
		// Nothing supplied; fall back to simple derivation.
		winPercentage = domain.WinPercentage(wins, losses, ties)
	}

	name := entry.Team.DisplayName
	if name == "" {
		name = entry.Team.Name
	}

	return domain.TeamRecord{
		Name:          name,
		Abbreviation:  entry.Team.Abbreviation,
		ID:            entry.Team.ID,
		Wins:          wins,
		Losses:        losses,
		Ties:          ties,
		WinPercentage: winPercentage,
		RecordSummary: domain.FormatRecordSummary(wins, losses, ties),
	}, true
}

// extractTeamRecord reads a per-team record from the team detail stat list,
// which keys stats by name rather than type.
func extractTeamRecord(detail teamDetailJSON) domain.Record {
	var wins, losses, ties int
	for _, stat := range detail.Stats {
		switch stat.Name {
		case "wins":
			wins = int(stat.Value)
		case "losses":
			losses = int(stat.Value)
		case "ties":
			ties = int(stat.Value)
		}
	}
	return domain.Record{
		Wins:          wins,
		Losses:        losses,
		Ties:          ties,
		WinPercentage: domain.WinPercentage(wins, losses, ties),
	}
}
