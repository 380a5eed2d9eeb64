// Package providers defines how upstream standings data is fetched and
// normalized, along with the error taxonomy shared by implementations.
package providers

import (
	"context"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
)

// Poll is one named ranking list (e.g. "AP Top 25") from a rankings response.
// Entries preserve the poll's own order; Rank on each entry is 1-based.
type Poll struct {
	Name    string
	Type    string
	Entries []domain.TeamRecord
}

// StandingsShape tags which response layout a standings call produced.
type StandingsShape int

const (
	// ShapeUnrecognized means no expected layout matched.
	ShapeUnrecognized StandingsShape = iota
	// ShapeDirect is a single entry list, sorted server-side.
	ShapeDirect
	// ShapeSectioned nests entries under divisions/conferences, each group
	// sorted independently.
	ShapeSectioned
)

// StandingsResult is the tagged outcome of the ordered shape probes run
// against a standings response. Direct results have exactly one group.
type StandingsResult struct {
	Shape  StandingsShape
	Groups [][]domain.TeamRecord
}

// Entries flattens all groups in group order.
func (r StandingsResult) Entries() []domain.TeamRecord {
	var out []domain.TeamRecord
	for _, g := range r.Groups {
		out = append(out, g...)
	}
	return out
}

// TeamSeed is a roster entry from a teams listing, before its record is
// known.
type TeamSeed struct {
	ID           string
	Name         string
	Abbreviation string
}

// StandingsSource fetches raw-but-normalized standings data from an upstream
// provider. Implementations perform one HTTP call per method and surface
// failures as UpstreamError or SchemaError.
type StandingsSource interface {
	Rankings(ctx context.Context, d league.Descriptor) ([]Poll, error)
	Standings(ctx context.Context, d league.Descriptor) (StandingsResult, error)
	Teams(ctx context.Context, d league.Descriptor) ([]TeamSeed, error)
	TeamRecord(ctx context.Context, d league.Descriptor, abbreviation string) (domain.Record, error)
}
