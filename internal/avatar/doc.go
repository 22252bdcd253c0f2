package avatar

// Package avatar reduces raw listing records to display-ready entries and
// provides the sort and search helpers the frontends use.
