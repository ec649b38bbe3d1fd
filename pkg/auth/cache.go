package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
)

// expirySkew treats tokens this close to expiry as already expired.
const expirySkew = time.Minute

// CachedToken is the persisted form of an access token.
type CachedToken struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
}

// Valid reports whether the token can still be used at now.
func (t CachedToken) Valid(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	return now.Add(expirySkew).Before(tokenExpiry(t.AccessToken, t.Expiry))
}

// tokenExpiry returns the exp claim of a JWT access token, or fallback when
// the token is opaque or carries no exp. The signature is not checked.
func tokenExpiry(accessToken string, fallback time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	return exp.Time
}

// TokenCache stores one access token as a JSON file.
type TokenCache struct {
	fs   afero.Fs
	path string
}

// NewTokenCache returns a cache backed by path on fsys.
func NewTokenCache(fsys afero.Fs, path string) *TokenCache {
	if path == "" {
		path = DefaultCachePath
	}
	return &TokenCache{fs: fsys, path: path}
}

// Path returns the cache file path.
func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached token, or nil if the cache file does not exist.
func (c *TokenCache) Load() (*CachedToken, error) {
	data, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var tok CachedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token cache %s: %w", c.path, err)
	}
	return &tok, nil
}

// Save writes tok to the cache file, readable by the owner only.
func (c *TokenCache) Save(tok CachedToken) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := c.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token cache directory: %w", err)
		}
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *TokenCache) Clear() error {
	if err := c.fs.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}
