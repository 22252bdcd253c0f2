package download

// Package download streams a single avatar file to disk in fixed-size
// chunks, reports fractional progress, and enforces that at most one
// download job is in flight at any time.
