package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/ansys/conceptev-go/pkg/auth"
	"github.com/ansys/conceptev-go/pkg/conceptev"
	"github.com/ansys/conceptev-go/pkg/ocm"
)

// Environment variables read when the config file leaves a value unset.
const (
	EnvConceptEVURL = "CONCEPTEV_URL"
	EnvOCMURL       = "OCM_URL"
	EnvUsername     = "CONCEPTEV_USERNAME"
	EnvPassword     = "CONCEPTEV_PASSWORD"
)

// Config is the CLI configuration.
type Config struct {
	// LogLevel is the log level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// ConceptEV configures the ConceptEV API.
	ConceptEV *ConceptEV `hcl:"conceptev,block"`

	// OCM configures the OCM identity and project service.
	OCM *OCM `hcl:"ocm,block"`

	// Auth configures interactive browser login.
	Auth *Auth `hcl:"auth,block"`
}

// ConceptEV is the conceptev block.
type ConceptEV struct {
	URL              string `hcl:"url,optional"`
	Timeout          string `hcl:"timeout,optional"`
	TLSVerify        *bool  `hcl:"tls_verify,optional"`
	DesignInstanceID string `hcl:"design_instance_id,optional"`
}

// OCM is the ocm block.
type OCM struct {
	URL      string `hcl:"url,optional"`
	Timeout  string `hcl:"timeout,optional"`
	Username string `hcl:"username,optional"`
	Password string `hcl:"password,optional"`
}

// Auth is the auth block.
type Auth struct {
	ClientID  string   `hcl:"client_id,optional"`
	Authority string   `hcl:"authority,optional"`
	Scopes    []string `hcl:"scopes,optional"`
	CachePath string   `hcl:"cache_path,optional"`
	Timeout   string   `hcl:"timeout,optional"`
}

// envFunc implements env("NAME") in config files.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// Load parses the HCL config file at path. An empty path yields a config
// built from the environment alone. Values the file leaves unset fall back
// to the environment in both cases.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := hclsimple.DecodeFile(path, evalContext(), cfg); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses HCL config from src. filename only determines the syntax
// (.hcl or .json) and appears in diagnostics.
func Decode(filename string, src []byte) (*Config, error) {
	cfg := &Config{}
	if err := hclsimple.Decode(filename, src, evalContext(), cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ConceptEV == nil {
		c.ConceptEV = &ConceptEV{}
	}
	if c.OCM == nil {
		c.OCM = &OCM{}
	}
	if c.Auth == nil {
		c.Auth = &Auth{}
	}

	setFromEnv(&c.ConceptEV.URL, EnvConceptEVURL)
	setFromEnv(&c.OCM.URL, EnvOCMURL)
	setFromEnv(&c.OCM.Username, EnvUsername)
	setFromEnv(&c.OCM.Password, EnvPassword)

	if c.Auth.CachePath == "" {
		c.Auth.CachePath = auth.DefaultCachePath
	}
}

func setFromEnv(field *string, name string) {
	if *field == "" {
		*field = os.Getenv(name)
	}
}

// Validate checks values that can be checked without knowing which command
// runs. Missing URLs are reported by the package constructors instead.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}

	durations := map[string]string{
		"conceptev.timeout": c.ConceptEV.Timeout,
		"ocm.timeout":       c.OCM.Timeout,
		"auth.timeout":      c.Auth.Timeout,
	}
	for name, value := range durations {
		if _, err := parseDuration(value); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid %s: %w", name, err))
		}
	}

	return result.ErrorOrNil()
}

// ConceptEVConfig returns the session configuration.
func (c *Config) ConceptEVConfig() conceptev.Config {
	timeout, _ := parseDuration(c.ConceptEV.Timeout)
	return conceptev.Config{
		BaseURL:   c.ConceptEV.URL,
		Timeout:   timeout,
		TLSVerify: c.ConceptEV.TLSVerify,
	}
}

// OCMConfig returns the OCM client configuration.
func (c *Config) OCMConfig(logger hclog.Logger) ocm.Config {
	timeout, _ := parseDuration(c.OCM.Timeout)
	return ocm.Config{
		BaseURL: c.OCM.URL,
		Timeout: timeout,
		Logger:  logger,
	}
}

// AuthConfig returns the interactive login configuration.
func (c *Config) AuthConfig(logger hclog.Logger) auth.Config {
	timeout, _ := parseDuration(c.Auth.Timeout)
	return auth.Config{
		ClientID:  c.Auth.ClientID,
		Authority: c.Auth.Authority,
		Scopes:    c.Auth.Scopes,
		CachePath: c.Auth.CachePath,
		Timeout:   timeout,
		Logger:    logger,
	}
}

// parseDuration parses a Go duration string. Empty means zero, which the
// packages replace with their defaults.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}
