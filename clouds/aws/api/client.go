// Package api is the production AWS inspection-API client. It talks to
// the read-only describe/list endpoints over plain HTTP with SigV4
// request signing; discovery adapters consume it through narrow
// per-service interfaces so tests can substitute fakes.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"tfadopt/internal/errors"
)

// Config configures the AWS client
type Config struct {
	// Region for regional endpoints (EC2); global services ignore it
	Region string

	// AccessKey is an explicit access key ID. Empty falls back to the
	// environment, then the shared credentials file.
	AccessKey string

	// SecretKey is the matching secret access key
	SecretKey string

	// SessionToken is an optional session token
	SessionToken string

	// Profile selects a section of the shared credentials file
	Profile string

	// Endpoint overrides every service endpoint (for testing)
	Endpoint string

	// HTTPTimeout for API calls
	HTTPTimeout time.Duration
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		Region:      "us-east-1",
		HTTPTimeout: 2 * time.Minute,
	}
}

// Client calls the AWS inspection APIs
type Client struct {
	httpClient *http.Client
	cfg        Config
	creds      credentials
}

// NewClient creates a client, resolving credentials from the config,
// the process environment, or the shared credentials file, in that
// order. The process environment is only ever read, never mutated.
func NewClient(cfg Config) (*Client, error) {
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultConfig().HTTPTimeout
	}
	if cfg.Region == "" {
		cfg.Region = DefaultConfig().Region
	}

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		cfg:        cfg,
		creds:      creds,
	}, nil
}

// Region returns the configured region.
func (c *Client) Region() string {
	return c.cfg.Region
}

// get performs a signed GET against one service endpoint and returns
// the response body. Callers decode XML or JSON as the service
// dictates.
func (c *Client) get(ctx context.Context, service, host, path string, query url.Values) ([]byte, error) {
	endpoint := "https://" + host
	if c.cfg.Endpoint != "" {
		endpoint = strings.TrimSuffix(c.cfg.Endpoint, "/")
	}

	u := endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Internal("failed to build request", err)
	}

	c.sign(req, service, emptyPayloadHash)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(fmt.Sprintf("%s request failed", service), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(fmt.Sprintf("%s response read failed", service), err)
	}

	if resp.StatusCode >= 400 {
		return nil, errors.Newf(errors.TypeNetwork, "%s returned %d: %s",
			service, resp.StatusCode, truncate(string(body), 200)).
			WithContext("status", resp.StatusCode)
	}
	return body, nil
}

// statusError extracts an HTTP status code from a client error, or 0.
func statusError(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if code, ok := e.Context["status"].(int); ok {
			return code
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// credentials is a resolved static credential set
type credentials struct {
	accessKey    string
	secretKey    string
	sessionToken string
}

// resolveCredentials follows the conventional chain: explicit config,
// AWS_* environment variables, then the shared credentials file under
// the configured profile.
func resolveCredentials(cfg Config) (credentials, error) {
	if cfg.AccessKey != "" {
		return credentials{cfg.AccessKey, cfg.SecretKey, cfg.SessionToken}, nil
	}

	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		return credentials{
			accessKey:    key,
			secretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
			sessionToken: os.Getenv("AWS_SESSION_TOKEN"),
		}, nil
	}

	profile := cfg.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile == "" {
		profile = "default"
	}

	creds, err := sharedFileCredentials(profile)
	if err != nil {
		return credentials{}, errors.Wrap(errors.TypeConfig, "no AWS credentials found", err)
	}
	return creds, nil
}

// sharedFileCredentials reads ~/.aws/credentials for one profile.
func sharedFileCredentials(profile string) (credentials, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return credentials{}, err
	}

	data, err := os.ReadFile(home + "/.aws/credentials")
	if err != nil {
		return credentials{}, err
	}

	var creds credentials
	section := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		if section != profile {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		switch key {
		case "aws_access_key_id":
			creds.accessKey = value
		case "aws_secret_access_key":
			creds.secretKey = value
		case "aws_session_token":
			creds.sessionToken = value
		}
	}

	if creds.accessKey == "" {
		return credentials{}, fmt.Errorf("profile %q has no access key", profile)
	}
	return creds, nil
}
