package application

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"webtask-bridge/internal/webapp"
)

// NewMockRequest builds the representative request published to task
// handlers: GET / over HTTP/1.0 with no headers and no body, bound to app.
// Only the scheme and host of rawURL are used.
func NewMockRequest(ctx context.Context, app *webapp.Application, rawURL string) (*http.Request, error) {
	u, err := parseRequestURL(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(webapp.ContextWithApp(ctx, app), http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrConfiguration, err)
	}
	req.Proto, req.ProtoMajor, req.ProtoMinor = "HTTP/1.0", 1, 0
	req.RequestURI = u.RequestURI()
	req.Close = false

	return webapp.WithMatchInfo(req, webapp.MatchInfo{
		Params:     map[string]string{},
		Route:      webapp.SystemRoute(http.StatusBadRequest),
		// Only the root app: the request was never routed through sub-apps.
		Apps:       []*webapp.Application{app},
		CurrentApp: app,
	}), nil
}

func parseRequestURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: request url %q: %w", ErrConfiguration, rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: request url %q needs scheme and host", ErrConfiguration, rawURL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}
