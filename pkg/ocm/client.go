// Package ocm is a client for the OCM identity and project-management
// service that sits next to the ConceptEV API.
//
// OCM owns accounts, HPC (compute) allocations, projects and designs. A
// ConceptEV concept is created inside an OCM design instance, so creating a
// project from the CLI is a sequence of OCM calls followed by one ConceptEV
// call (see conceptev.CreateNewProject).
//
// Requests carry the caller's token verbatim in the Authorization header.
// Project, design and user endpoints accept 200 or 204 as success; login,
// account and HPC lookups accept only 200.
package ocm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ConceptEVProductName is the OCM product name of ConceptEV.
const ConceptEVProductName = "CONCEPTEV"

// StatusError is returned when OCM answers with an unexpected status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("OCM %s returned status %d: %s", e.Endpoint, e.StatusCode, string(e.Body))
}

// Client talks to OCM.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     hclog.Logger
}

// NewClient creates a new OCM client.
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ocm config: %w", err)
	}

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger.Named("ocm"),
	}, nil
}

// Login exchanges an email address and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login/", "",
		loginRequest{EmailAddress: email, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("failed to get token: response has no accessToken")
	}
	return resp.AccessToken, nil
}

// CreateProject creates a project under an account.
func (c *Client) CreateProject(ctx context.Context, token string, req ProjectRequest) (*Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPost, "/project/create", token, req, &project,
		http.StatusOK, http.StatusNoContent)
	if err != nil {
		return nil, fmt.Errorf("failed to create a project on OCM: %w", err)
	}

	c.logger.Info("created project", "project_id", project.ProjectID)
	return &project, nil
}

// ListProducts lists the products visible to the user.
func (c *Client) ListProducts(ctx context.Context, token string) ([]Product, error) {
	var products []Product
	err := c.do(ctx, http.MethodGet, "/product/list", token, nil, &products,
		http.StatusOK, http.StatusNoContent)
	if err != nil {
		return nil, fmt.Errorf("failed to list products on OCM: %w", err)
	}
	return products, nil
}

// ProductID returns the id of the product named name.
func (c *Client) ProductID(ctx context.Context, token, name string) (string, error) {
	products, err := c.ListProducts(ctx, token)
	if err != nil {
		return "", err
	}
	for _, p := range products {
		if p.ProductName == name {
			return p.ProductID, nil
		}
	}
	return "", fmt.Errorf("product %q not found on OCM", name)
}

// CreateDesign creates a design in a project.
func (c *Client) CreateDesign(ctx context.Context, token string, req DesignRequest) (*Design, error) {
	var design Design
	err := c.do(ctx, http.MethodPost, "/design/create", token, req, &design,
		http.StatusOK, http.StatusNoContent)
	if err != nil {
		return nil, fmt.Errorf("failed to create a design on OCM: %w", err)
	}

	c.logger.Info("created design", "design_id", design.DesignID)
	return &design, nil
}

// UserDetails returns the user the token belongs to.
func (c *Client) UserDetails(ctx context.Context, token string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/user/details", token, nil, &user,
		http.StatusOK, http.StatusNoContent)
	if err != nil {
		return nil, fmt.Errorf("failed to get user details on OCM: %w", err)
	}
	return &user, nil
}

// AccountIDs returns the user's accounts keyed by account name.
func (c *Client) AccountIDs(ctx context.Context, token string) (map[string]string, error) {
	var entries []AccountEntry
	if err := c.do(ctx, http.MethodPost, "/account/list", token, nil, &entries, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	accounts := make(map[string]string, len(entries))
	for _, e := range entries {
		accounts[e.Account.AccountName] = e.Account.AccountID
	}
	return accounts, nil
}

// DefaultHPC returns the id of the default HPC of an account.
func (c *Client) DefaultHPC(ctx context.Context, token, accountID string) (string, error) {
	var resp hpcResponse
	err := c.do(ctx, http.MethodPost, "/account/hpc/default", token,
		hpcRequest{AccountID: accountID}, &resp, http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("failed to get default hpc: %w", err)
	}
	return resp.HPCID, nil
}

// do sends one request and decodes the response into result when the status
// is one of ok. An empty body leaves result untouched.
func (c *Client) do(
	ctx context.Context,
	method, path, token string,
	body, result any,
	ok ...int,
) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode)

	if !statusIn(resp.StatusCode, ok) {
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: respBody}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func statusIn(status int, ok []int) bool {
	for _, s := range ok {
		if status == s {
			return true
		}
	}
	return false
}
