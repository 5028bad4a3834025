package refresh

// Generation is a monotonic integer tagging each successful refresh.
// It starts at 0 and is incremented by exactly 1 on each successful
// refresh; it never decreases.
type Generation uint64
