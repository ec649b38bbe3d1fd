// Package auth acquires ConceptEV access tokens from an OpenID Connect
// identity provider.
//
// Token first tries the on-disk cache and only falls back to an interactive
// browser login (authorization code with PKCE, loopback redirect) when no
// unexpired token is cached. Refresh tokens are not used.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/browser"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
)

// Acquirer hands out access tokens for one client and authority.
type Acquirer struct {
	config     Config
	cache      *TokenCache
	openURL    func(url string) error
	httpClient *http.Client
	now        func() time.Time
	logger     hclog.Logger
}

// Option customizes an Acquirer.
type Option func(*Acquirer)

// WithFs sets the file system of the token cache. Default: the OS file system.
func WithFs(fsys afero.Fs) Option {
	return func(a *Acquirer) { a.cache = NewTokenCache(fsys, a.config.CachePath) }
}

// WithBrowser replaces the function that opens the login page.
func WithBrowser(open func(url string) error) Option {
	return func(a *Acquirer) { a.openURL = open }
}

// WithHTTPClient sets the client used for discovery and the code exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Acquirer) { a.httpClient = client }
}

// NewAcquirer creates a new Acquirer.
func NewAcquirer(config Config, opts ...Option) (*Acquirer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	if config.CachePath == "" {
		config.CachePath = DefaultCachePath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultLoginTimeout
	}
	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}

	a := &Acquirer{
		config:  config,
		cache:   NewTokenCache(afero.NewOsFs(), config.CachePath),
		openURL: browser.OpenURL,
		now:     time.Now,
		logger:  config.Logger.Named("auth"),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Cache returns the token cache.
func (a *Acquirer) Cache() *TokenCache {
	return a.cache
}

// Token returns a cached access token if one is still valid, and otherwise
// runs the interactive browser login and caches the result.
func (a *Acquirer) Token(ctx context.Context) (string, error) {
	cached, err := a.cache.Load()
	if err != nil {
		a.logger.Warn("ignoring unreadable token cache", "error", err)
	} else if cached != nil && cached.Valid(a.now()) {
		a.logger.Debug("using cached token", "path", a.cache.Path())
		return cached.AccessToken, nil
	}

	tok, err := a.interactive(ctx)
	if err != nil {
		return "", err
	}

	cached = &CachedToken{
		AccessToken: tok.AccessToken,
		Expiry:      tokenExpiry(tok.AccessToken, tok.Expiry),
	}
	if err := a.cache.Save(*cached); err != nil {
		a.logger.Warn("failed to cache token", "error", err)
	}

	return cached.AccessToken, nil
}

type callbackResult struct {
	code string
	err  error
}

// interactive runs the authorization code flow with PKCE through the
// user's browser and a loopback redirect listener.
func (a *Acquirer) interactive(ctx context.Context) (*oauth2.Token, error) {
	if a.httpClient != nil {
		ctx = oidc.ClientContext(ctx, a.httpClient)
	}

	// Multi-tenant authorities report a tenant-specific issuer.
	provider, err := oidc.NewProvider(oidc.InsecureIssuerURLContext(ctx, a.config.Authority), a.config.Authority)
	if err != nil {
		return nil, fmt.Errorf("failed to discover authority %s: %w", a.config.Authority, err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start redirect listener: %w", err)
	}

	oauthConfig := oauth2.Config{
		ClientID:    a.config.ClientID,
		Endpoint:    provider.Endpoint(),
		RedirectURL: fmt.Sprintf("http://%s/", listener.Addr().String()),
		Scopes:      a.config.Scopes,
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		res := parseCallback(r, state)
		select {
		case results <- res:
		default:
		}

		if res.err != nil {
			http.Error(w, "Authentication failed. You can close this window.", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Authentication complete. You can close this window.")
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("redirect listener failed", "error", err)
		}
	}()
	defer server.Close()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	a.logger.Info("opening browser for login", "redirect_url", oauthConfig.RedirectURL)
	if err := a.openURL(authURL); err != nil {
		return nil, fmt.Errorf("failed to open browser: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var res callbackResult
	select {
	case <-waitCtx.Done():
		return nil, fmt.Errorf("login not completed: %w", waitCtx.Err())
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := oauthConfig.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("token response has no access token")
	}

	a.logger.Info("login complete")
	return tok, nil
}

// parseCallback extracts the authorization code from the redirect request.
func parseCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		return callbackResult{err: fmt.Errorf("authorization failed: %s: %s", e, q.Get("error_description"))}
	}
	if q.Get("state") != state {
		return callbackResult{err: errors.New("authorization failed: state mismatch")}
	}

	code := q.Get("code")
	if code == "" {
		return callbackResult{err: errors.New("authorization failed: no code in redirect")}
	}
	return callbackResult{code: code}
}
