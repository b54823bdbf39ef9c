package identity

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/resilience"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/sync/singleflight"
)

const (
	defaultIntrospectPath  = "/v1/auth/introspect"
	defaultTimeout         = 5 * time.Second
	defaultCacheTTL        = 30 * time.Second
	defaultCacheMaxEntries = 10000
	maxResponseBytes       = 1 << 20
)

var errIdentityTransient = crerr.New("identity provider transient failure")

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	IntrospectPath  string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
	Logger          *logging.Logger
}

// Client resolves bearer tokens into principals through the identity
// provider's introspection endpoint.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *logging.Logger
	cache          *inMemoryPrincipalCache
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid identity base url")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	path := strings.TrimSpace(cfg.IntrospectPath)
	if path == "" {
		path = defaultIntrospectPath
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	maxEntries := cfg.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultCacheMaxEntries
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("identity circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(baseURL, path),
		logger:         logger,
		cache:          newInMemoryPrincipalCache(ttl, maxEntries),
		breaker:        breaker,
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}, nil
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	out, err, _ := c.flight.Do(cacheKey, func() (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "identity circuit breaker rejected request", "state", c.breaker.State())
				return user.Principal{}, fmt.Errorf("%w: identity provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		principal, callErr := c.introspect(ctx, token)
		c.recordCircuitResult(callErr)
		if callErr == nil {
			c.cache.Set(cacheKey, principal)
		}
		return principal, callErr
	})
	if err != nil {
		if isCircuitFailure(err) {
			return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return user.Principal{}, err
	}

	principal, ok := out.(user.Principal)
	if !ok {
		return user.Principal{}, crerr.Newf("unexpected introspection result type %T", out)
	}
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(introspectRequest{Token: token}); err != nil {
		return user.Principal{}, crerr.Wrap(err, "encode introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(buf.B))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "build introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return user.Principal{}, ctx.Err()
		}
		return user.Principal{}, fmt.Errorf("%w: send introspect request: %v", errIdentityTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errIdentityTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "identity introspection non-200", "status_code", resp.StatusCode)
		if isRetryableStatus(resp.StatusCode) {
			return user.Principal{}, fmt.Errorf("%w: introspection status=%d", errIdentityTransient, resp.StatusCode)
		}
		return user.Principal{}, crerr.Newf("identity introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "decode introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: strings.TrimSpace(decoded.UserID),
		Email:  strings.TrimSpace(decoded.Email),
	}, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled {
		return
	}
	c.breaker.Record(err, isCircuitFailure)
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
