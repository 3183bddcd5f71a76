package mmad

import (
	"net/http"
	"time"
)

// Client is the entry point for granting and redeeming spending permissions.
// A Client holds no per-call state; one instance may be used concurrently by
// unrelated callers.
type Client struct {
	wallet         WalletClient
	grantHooks     GrantHooks
	redeemHooks    RedeemHooks
	transform      TransformFunc
	httpClient     *http.Client
	backendBaseURL string
	clock          func() time.Time
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithWallet sets the wallet provider used for permission requests and
// on-chain redemption.
func WithWallet(wallet WalletClient) ClientOption {
	return func(c *Client) {
		c.wallet = wallet
	}
}

// WithGrantHooks registers lifecycle hooks for the permission flow.
func WithGrantHooks(hooks GrantHooks) ClientOption {
	return func(c *Client) {
		c.grantHooks = hooks
	}
}

// WithRedeemHooks registers lifecycle hooks for the redemption flow.
func WithRedeemHooks(hooks RedeemHooks) ClientOption {
	return func(c *Client) {
		c.redeemHooks = hooks
	}
}

// WithTransform sets the full-override transform applied between the
// beforeBuild and beforeRequest stages of the grant flow.
func WithTransform(transform TransformFunc) ClientOption {
	return func(c *Client) {
		c.transform = transform
	}
}

// WithHTTPClient replaces the HTTP client used for the backend redemption
// path.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBackendBaseURL sets the base URL that relative redemption endpoints
// (including the default one) are resolved against.
func WithBackendBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.backendBaseURL = baseURL
	}
}

// WithClock replaces the time source used for relative defaults. Tests use
// this to pin "now".
func WithClock(clock func() time.Time) ClientOption {
	return func(c *Client) {
		c.clock = clock
	}
}

// NewClient creates a permissions client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}
