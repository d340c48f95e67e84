package httpserver

import (
	"net/http"
	"time"
)

// New constructs an http.Server with conservative timeouts so a stalled
// client cannot hold a handler goroutine forever.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
