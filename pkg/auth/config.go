package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultCachePath is the token cache file used when none is configured.
	DefaultCachePath = "token_cache.json"

	// DefaultLoginTimeout bounds how long Token waits for the browser login.
	DefaultLoginTimeout = 5 * time.Minute
)

// Config holds configuration for interactive token acquisition.
type Config struct {
	ClientID  string        // OAuth client (application) id
	Authority string        // OIDC issuer, e.g. https://login.microsoftonline.com/organizations/v2.0
	Scopes    []string      // Requested scopes
	CachePath string        // Token cache file (default: token_cache.json)
	Timeout   time.Duration // Browser login timeout (default: 5m)
	Logger    hclog.Logger  // Logger (optional)
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ClientID, validation.Required.Error("client id is required")),
		validation.Field(&c.Authority,
			validation.Required.Error("authority is required"),
			is.URL),
		validation.Field(&c.Timeout,
			validation.Min(time.Duration(0)).Error("timeout must not be negative")),
	)
}
