package vrchat

import (
	"net/http"
	"strings"
)

// AuthCookiePrefix marks a cookie string that is already in wire format
const AuthCookiePrefix = "auth="

// FormatCookie turns a pasted token into a Cookie header value. Empty input
// yields "" which callers must treat as not authenticated.
func FormatCookie(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, AuthCookiePrefix) {
		return AuthCookiePrefix + raw + ";"
	}
	return raw
}

// SetHeaders applies the client identifier and session cookie to req
func SetHeaders(req *http.Request, cookie string) {
	req.Header.Set("User-Agent", UserAgent)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}
