package controller

// Package controller owns every piece of state the frontends display: the
// avatar list, the listing progress and the current download flow.
//
// Commands are issued from the interactive thread. Background work never
// touches state; it reports through Events, and the interactive loop feeds
// each event back into Apply. Frontends read Snapshot and react to
// Subscribe and OnNotice callbacks, which always fire from inside Apply or a
// command.
