package conceptev

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// DesignInstanceParam is the query parameter that scopes requests to a
// design instance.
const DesignInstanceParam = "design_instance_id"

// Session is a connection context bound to one API base URL and credential.
//
// A Session is single-owner and must not be shared between goroutines;
// concurrent flows should each create their own. Call Close when done.
type Session struct {
	config Config
	token  string
	params url.Values
	client *http.Client
	fs     afero.Fs
	logger hclog.Logger
	closed bool
}

// SessionOption customizes a Session created by NewSession.
type SessionOption func(*Session)

// WithDesignInstanceID adds design_instance_id as a default query parameter
// on every request made through the session.
func WithDesignInstanceID(id string) SessionOption {
	return WithDefaultParam(DesignInstanceParam, id)
}

// WithDefaultParam adds a query parameter sent on every request.
func WithDefaultParam(key, value string) SessionOption {
	return func(s *Session) {
		if value != "" {
			s.params.Set(key, value)
		}
	}
}

// WithHTTPClient replaces the HTTP client built from the Config. The session
// keeps a shallow copy, so SetTimeout leaves c unchanged; the transport is
// shared with c.
func WithHTTPClient(c *http.Client) SessionOption {
	return func(s *Session) {
		client := *c
		s.client = &client
	}
}

// WithFs sets the filesystem uploads are read from. Default: the OS filesystem.
func WithFs(fs afero.Fs) SessionOption {
	return func(s *Session) {
		s.fs = fs
	}
}

// WithLogger sets the session logger.
func WithLogger(l hclog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a Session. No network traffic happens until the first
// request. The token is sent verbatim in the Authorization header.
func NewSession(cfg Config, token string, opts ...SessionOption) (*Session, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conceptev config: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}

	s := &Session{
		config: cfg,
		token:  token,
		params: url.Values{},
		fs:     afero.NewOsFs(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = cfg.NewHTTPClient()
	}
	s.logger = s.logger.Named("session")

	return s, nil
}

// Token returns the credential the session authenticates with.
func (s *Session) Token() string {
	return s.token
}

// DesignInstanceID returns the default design_instance_id, if any.
func (s *Session) DesignInstanceID() string {
	return s.params.Get(DesignInstanceParam)
}

// SetTimeout changes the per-request timeout of this session, e.g. before a
// long calculation.
func (s *Session) SetTimeout(d time.Duration) {
	s.client.Timeout = d
}

// Close releases idle connections held by the session. It is safe to call
// more than once; requests made after Close fail with ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.client.CloseIdleConnections()
	return nil
}

// buildURL joins path onto the base URL and merges the session default
// parameters with params. Call parameters win on key collision.
func (s *Session) buildURL(path string, params url.Values) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(s.config.BaseURL, "/") + path)
	if err != nil {
		return "", fmt.Errorf("failed to build url: %w", err)
	}

	q := u.Query()
	for k, vs := range s.params {
		q[k] = append([]string(nil), vs...)
	}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// send builds and executes one request. The caller owns the response body.
func (s *Session) send(
	ctx context.Context,
	method, path string,
	params url.Values,
	body io.Reader,
	contentType string,
) (*http.Response, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	endpoint, err := s.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	s.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp, nil
}
