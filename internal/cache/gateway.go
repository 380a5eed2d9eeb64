// Package cache provides the namespaced key/value gateway used by the
// standings fetcher: read-through gets that enforce freshness per namespace,
// and opaque write-through puts.
package cache

import "time"

// Namespaces understood by the default TTL policy. Freshness is wholly a
// gateway concern; the fetcher never inspects timestamps itself.
const (
	NamespaceStandings  = "standings"
	NamespaceTeamRecord = "team_record"
)

// Gateway is the cache contract consumed by the standings fetcher. Payloads
// are opaque bytes; a false return from GetIfFresh means absent or stale.
type Gateway interface {
	GetIfFresh(key, namespace string) ([]byte, bool)
	Put(key string, payload []byte) error
}

// TTLPolicy maps a namespace to how long its entries stay fresh.
type TTLPolicy map[string]time.Duration

const defaultTTL = time.Hour

// DefaultTTLs returns the stock freshness policy: standings refresh hourly,
// per-team records much less often since they feed a nested lookup fan-out.
func DefaultTTLs() TTLPolicy {
	return TTLPolicy{
		NamespaceStandings:  time.Hour,
		NamespaceTeamRecord: 6 * time.Hour,
	}
}

func (p TTLPolicy) ttl(namespace string) time.Duration {
	if ttl, ok := p[namespace]; ok && ttl > 0 {
		return ttl
	}
	return defaultTTL
}
