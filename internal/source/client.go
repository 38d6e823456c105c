package source

import (
	"errors"
	"net/http"
	"time"
)

const maxResponseBytes = 32 * 1024 * 1024

// NewHTTPClient creates an HTTP client with safe defaults for fetching
// remote sources: a hard timeout and a same-host redirect policy.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}
