package tui

// Package tui is a terminal frontend built on Bubble Tea. It drives the same
// controller as the desktop window and saves downloads into the last used
// save directory.
