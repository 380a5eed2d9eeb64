package providers

// CallCounter is an optional side-effect hook incremented once per outbound
// API call. It is injected explicitly rather than held as a global; callers
// that do not care pass NopCounter. Implementations must not affect control
// flow.
type CallCounter func(kind string, count int)

// NopCounter discards counter increments.
func NopCounter(string, int) {}
