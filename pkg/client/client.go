// Package client is the Go SDK for the DAO backend. It keeps the caller's
// login session, talks JSON to the backend over HTTP and queries the ICP and
// ICRC ledgers over JSON-RPC.
package client

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/skillshare-dao/skillshare-dao/internal/config"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace"
	"github.com/skillshare-dao/skillshare-dao/internal/profile"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal"
)

// MaxSessionTTL caps how long a login stays valid locally, whatever the
// backend grants.
const MaxSessionTTL = 7 * 24 * time.Hour

const defaultTimeout = 30 * time.Second

type (
	Profile  = profile.Profile
	Role     = profile.Role
	Proposal = proposal.Proposal
	Product  = marketplace.Product
	Order    = marketplace.Order
)

// Config describes the endpoints the client talks to.
type Config struct {
	// BaseURL of the DAO backend, e.g. http://localhost:3000.
	BaseURL string
	// ICPLedgerURL and ICRCLedgerURL are JSON-RPC 2.0 endpoints. Either may
	// be empty when the corresponding ledger calls are not used.
	ICPLedgerURL  string
	ICRCLedgerURL string
	// BackendPrincipal is the spender approved by BuyProduct.
	BackendPrincipal string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

// ConfigFromLedger fills the ledger endpoints from the service configuration.
func ConfigFromLedger(baseURL string, l config.LedgerConfig) Config {
	return Config{
		BaseURL:       baseURL,
		ICPLedgerURL:  l.ICPURL,
		ICRCLedgerURL: l.ICRCURL,
		Timeout:       l.Timeout,
	}
}

// Client is safe for concurrent use.
type Client struct {
	base      *url.URL
	icpURL    string
	icrcURL   string
	spender   string
	http      *http.Client
	now       func() time.Time
	rpcNextID uint64

	mu      sync.Mutex
	session *Session

	// refreshMu serializes token renewal across concurrent calls.
	refreshMu sync.Mutex
}

// New validates cfg and returns a logged-out client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: base URL required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("client: base URL must be http or https")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:    base,
		icpURL:  cfg.ICPLedgerURL,
		icrcURL: cfg.ICRCLedgerURL,
		spender: cfg.BackendPrincipal,
		http:    hc,
		now:     time.Now,
	}, nil
}
