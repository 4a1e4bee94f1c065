package gemdocs

import (
	"context"
	"fmt"
)

// Fetcher retrieves raw page content from URLs.
type Fetcher interface {
	// Fetch retrieves the content at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (content string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}

// StatusError reports a non-success HTTP response. It unwraps to an EFETCH
// Error, so ErrorCode and ErrorMessage treat it as a fetch failure.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Unwrap returns the EFETCH application error.
func (e *StatusError) Unwrap() error {
	return Errorf(EFETCH, "%s", e.Error())
}

// Permanent reports whether retrying the request cannot succeed: any 4xx
// other than 408 Request Timeout and 429 Too Many Requests.
func (e *StatusError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != 408 && e.StatusCode != 429
}
