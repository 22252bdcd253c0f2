package model

// Package model defines domain data structures used across the app: remote
// file records as returned by the listing API, display-ready avatar entries,
// the download job, flow states and the typed error taxonomy. Structures are
// plain values so they can be copied across goroutines and rendered directly.
