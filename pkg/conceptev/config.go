package conceptev

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config contains configuration for talking to the ConceptEV API.
type Config struct {
	// BaseURL is the API root, e.g. "https://conceptev.ansys.com/api".
	BaseURL string `json:"baseUrl"`

	// Timeout bounds each request. Long calculations such as loss maps need
	// a much larger value; see Session.SetTimeout.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// TLSVerify controls TLS certificate verification
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool `json:"tlsVerify,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	tlsVerify := true
	return Config{
		Timeout:   30 * time.Second,
		TLSVerify: &tlsVerify,
	}
}

// applyDefaults fills zero values from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL,
			validation.Required.Error("base_url is required"),
			validation.By(httpURL)),
		validation.Field(&c.Timeout,
			validation.Min(time.Duration(0)).Error("timeout must not be negative")),
	)
}

// httpURL is an ozzo rule requiring an absolute http or https URL.
func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// NewHTTPClient creates the HTTP client a Session sends requests through.
func (c Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    1,
		IdleConnTimeout: 90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
