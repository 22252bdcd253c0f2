package unpack

// Package unpack hands a downloaded avatar file to a locally running
// AssetRipper instance and asks it to export a Unity project next to the
// file. The step is optional: an absent service is reported as a skip.
