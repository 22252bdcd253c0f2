package vrchat

// Package vrchat talks to the VRChat file API: it normalizes the pasted
// session cookie and pages through the user's uploaded files.
