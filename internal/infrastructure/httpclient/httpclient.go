package httpclient

import (
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgentClient sets a User-Agent on requests that do not carry one.
type UserAgentClient struct {
	next      HTTPClient
	userAgent string
}

// New returns a UserAgentClient over an http.Client with the given timeout.
func New(userAgent string, timeout time.Duration) *UserAgentClient {
	return Wrap(&http.Client{Timeout: timeout}, userAgent)
}

func Wrap(next HTTPClient, userAgent string) *UserAgentClient {
	return &UserAgentClient{
		next:      next,
		userAgent: userAgent,
	}
}

func (c *UserAgentClient) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.next.Do(req)
}
