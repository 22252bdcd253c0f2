package vrchat

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the client shared by listing and downloading.
// It sets neither Timeout nor ResponseHeaderTimeout: listing bounds each
// request with a context deadline and downloads bound the header wait and
// every body read with their own inactivity timer.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{Transport: transport}
}
