package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It renders the controller's snapshots, forwards user actions as controller
// commands, and turns notices into localized dialogs. All UI strings are
// localized via Localization.
