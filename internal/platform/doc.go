package platform

// Package platform contains OS/platform integration: filesystem helpers,
// unpack directory derivation, free space probing and OS reveal.
