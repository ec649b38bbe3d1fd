package ocm

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
)

// Config holds configuration for the OCM client.
type Config struct {
	BaseURL string        // Base URL, e.g. https://prod.portal.onscale.com/api
	Timeout time.Duration // HTTP timeout (default: 30s)
	Logger  hclog.Logger  // Logger (optional)
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL,
			validation.Required.Error("ocm base url is required"),
			is.RequestURL),
		validation.Field(&c.Timeout,
			validation.Min(time.Duration(0)).Error("timeout must not be negative")),
	)
}
