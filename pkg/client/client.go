package client

import (
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/neutree-ai/obsprobe/internal/version"
)

// Client represents an obsprobe API client
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client

	Strategies *StrategiesService
	System     *SystemService
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithToken sets the bearer token sent with every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets the HTTP client for the API client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		transport, ok := c.httpClient.Transport.(*http.Transport)
		if !ok || transport == nil {
			transport = http.DefaultTransport.(*http.Transport).Clone() //nolint:errcheck
		}

		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		//nolint:gosec
		transport.TLSClientConfig.InsecureSkipVerify = true
		c.httpClient.Transport = transport
	}
}

// WithTimeout sets the timeout of the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new obsprobe API client
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: version.Get().UserAgent(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, option := range options {
		option(client)
	}

	client.Strategies = NewStrategiesService(client)
	client.System = NewSystemService(client)

	return client
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}
