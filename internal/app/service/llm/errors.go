package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey means the relay cannot serve analyze calls: the upstream
// credential was absent from configuration at process start.
var ErrMissingAPIKey = errors.New("upstream API key is not configured")

// ErrUpstreamProtocol marks responses the relay cannot interpret: a redirect
// without a location header, or an unparseable completion body.
var ErrUpstreamProtocol = errors.New("upstream protocol error")

// ErrUpstreamTimeout marks an upstream call that exceeded the bounded
// request timeout.
var ErrUpstreamTimeout = errors.New("upstream request timed out")

// UpstreamError is a non-2xx answer from the LLM provider. The status code
// and raw body are kept for diagnosability; nothing is swallowed.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}
