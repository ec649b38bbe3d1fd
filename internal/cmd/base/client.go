package base

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ansys/conceptev-go/internal/config"
	"github.com/ansys/conceptev-go/pkg/auth"
	"github.com/ansys/conceptev-go/pkg/conceptev"
	"github.com/ansys/conceptev-go/pkg/ocm"
)

// Environment variables read when the matching flag is not given.
const (
	EnvConfig = "CONCEPTEV_CONFIG"
	EnvToken  = "CONCEPTEV_TOKEN"
)

// ClientFlags are the flags shared by every command that talks to the APIs.
type ClientFlags struct {
	Config         string
	Token          string
	DesignInstance string
	LogLevel       string
}

// Register adds the shared flags to f.
func (cf *ClientFlags) Register(f *FlagSet) {
	f.StringVar(
		&cf.Config, "config", "",
		"["+EnvConfig+"] Path to an HCL config file. Without one, settings "+
			"are read from the environment.",
	)
	f.StringVar(
		&cf.Token, "token", "",
		"["+EnvToken+"] Access token. Without one, a token is obtained by "+
			"browser login when an auth block is configured, or by OCM login "+
			"with CONCEPTEV_USERNAME and CONCEPTEV_PASSWORD.",
	)
	f.StringVar(
		&cf.DesignInstance, "design-instance", "",
		"Design instance id sent with every ConceptEV request.",
	)
	f.StringVar(
		&cf.LogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error). Overrides the config file.",
	)
}

// Env is everything a command needs to reach ConceptEV and OCM.
type Env struct {
	Config *config.Config
	Token  string
}

// LoadConfig loads configuration and applies the log level.
func (c *Command) LoadConfig(cf *ClientFlags) (*config.Config, error) {
	path := cf.Config
	if val, ok := os.LookupEnv(EnvConfig); ok && path == "" {
		path = val
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if cf.LogLevel != "" {
		level = cf.LogLevel
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	c.Log.SetLevel(lvl)

	if cf.DesignInstance == "" {
		cf.DesignInstance = cfg.ConceptEV.DesignInstanceID
	}
	return cfg, nil
}

// Setup loads configuration and resolves the access token.
func (c *Command) Setup(ctx context.Context, cf *ClientFlags) (*Env, error) {
	cfg, err := c.LoadConfig(cf)
	if err != nil {
		return nil, err
	}

	token, err := c.resolveToken(ctx, cfg, cf.Token)
	if err != nil {
		return nil, err
	}

	return &Env{Config: cfg, Token: token}, nil
}

func (c *Command) resolveToken(ctx context.Context, cfg *config.Config, token string) (string, error) {
	if val, ok := os.LookupEnv(EnvToken); ok && token == "" {
		token = val
	}
	if token != "" {
		return token, nil
	}

	if cfg.Auth.ClientID != "" {
		return c.BrowserToken(ctx, cfg)
	}

	if cfg.OCM.Username != "" {
		return c.PasswordToken(ctx, cfg)
	}

	return "", errors.New("no access token: use -token, " + EnvToken +
		", an auth block, or " + config.EnvUsername + "/" + config.EnvPassword)
}

// BrowserToken returns a cached token or runs the interactive login.
func (c *Command) BrowserToken(ctx context.Context, cfg *config.Config) (string, error) {
	acquirer, err := auth.NewAcquirer(cfg.AuthConfig(c.Log), auth.WithFs(c.Fs))
	if err != nil {
		return "", err
	}
	return acquirer.Token(ctx)
}

// PasswordToken logs in to OCM with the configured username and password.
func (c *Command) PasswordToken(ctx context.Context, cfg *config.Config) (string, error) {
	client, err := c.OCMClient(cfg)
	if err != nil {
		return "", err
	}
	return client.Login(ctx, cfg.OCM.Username, cfg.OCM.Password)
}

// OCMClient returns a client for the configured OCM service.
func (c *Command) OCMClient(cfg *config.Config) (*ocm.Client, error) {
	return ocm.NewClient(cfg.OCMConfig(c.Log))
}

// Session opens a ConceptEV session. Callers must Close it.
func (c *Command) Session(env *Env, cf *ClientFlags) (*conceptev.Session, error) {
	opts := []conceptev.SessionOption{
		conceptev.WithFs(c.Fs),
		conceptev.WithLogger(c.Log),
	}
	if cf.DesignInstance != "" {
		opts = append(opts, conceptev.WithDesignInstanceID(cf.DesignInstance))
	}
	return conceptev.NewSession(env.Config.ConceptEVConfig(), env.Token, opts...)
}
