package espn

type rankingsResponse struct {
	Rankings []rankingJSON `json:"rankings"`
}

type rankingJSON struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Ranks []rankJSON `json:"ranks"`
}

type rankJSON struct {
	Current       int      `json:"current"`
	RecordSummary string   `json:"recordSummary"`
	Team          teamJSON `json:"team"`
}

type teamJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

// standingsResponse covers both layouts the standings endpoint produces: a
// direct entry list, or entries nested per division/conference child.
type standingsResponse struct {
	Standings *standingsBlock `json:"standings"`
	Children  []childJSON     `json:"children"`
}

type standingsBlock struct {
	Entries []entryJSON `json:"entries"`
}

type childJSON struct {
	Standings standingsBlock `json:"standings"`
}

type entryJSON struct {
	Team  teamJSON   `json:"team"`
	Stats []statJSON `json:"stats"`
}

// statJSON entries are keyed by Type in standings responses and by Name in
// per-team record responses.
type statJSON struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type teamsResponse struct {
	Sports []sportJSON `json:"sports"`
}

type sportJSON struct {
	Leagues []leagueJSON `json:"leagues"`
}

type leagueJSON struct {
	Teams []teamWrapperJSON `json:"teams"`
}

type teamWrapperJSON struct {
	Team teamJSON `json:"team"`
}

type teamDetailResponse struct {
	Team teamDetailJSON `json:"team"`
}

type teamDetailJSON struct {
	ID           string     `json:"id"`
	DisplayName  string     `json:"displayName"`
	Abbreviation string     `json:"abbreviation"`
	Stats        []statJSON `json:"stats"`
}
