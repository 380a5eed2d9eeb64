package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldLeague     = "league"
	FieldTeam       = "team"
	FieldRecord     = "record"
	FieldPoll       = "poll"
	FieldEndpoint   = "endpoint"
	FieldCacheKey   = "cache_key"
	FieldNamespace  = "namespace"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
