package espn

import "time"

const (
	sourceName = "espn"

	// counterKind is the label reported to the outbound call counter hook.
	counterKind = "sports"

	// defaultSiteBaseURL serves rankings, teams, and per-team records.
	defaultSiteBaseURL = "https://site.api.espn.com/apis/site/v2"
	// defaultCoreBaseURL serves the standings endpoint, which lives under a
	// different API root than the rest of the site API.
	defaultCoreBaseURL = "https://site.api.espn.com/apis/v2"

	defaultHTTPTimeout = 30 * time.Second
)
