// Package http provides the outbound HTTP client shared by platform adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for object storage and other outbound calls.
// http.DefaultClient has no timeout, so adapters always use this instead.
// timeout bounds the whole request; dial and TLS handshakes are capped separately.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
