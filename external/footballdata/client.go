package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/pickwise/survivor-league/internal/platform/logging"
	"github.com/pickwise/survivor-league/internal/platform/resilience"
	"github.com/pickwise/survivor-league/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org/v4"
	dateLayout     = "2006-01-02"
	maxBodyBytes   = 4 << 20
)

var errProviderTransient = crerr.New("football-data transient failure")
var errProviderNotFound = crerr.New("football-data resource not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. It implements
// usecase.MatchDataProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatchesByRange issues one ranged query for the competition's matches
// between from and to (inclusive, date precision).
func (c *Client) FetchMatchesByRange(ctx context.Context, competitionCode string, from, to time.Time) ([]usecase.ExternalMatch, error) {
	competitionCode = strings.TrimSpace(competitionCode)
	if competitionCode == "" {
		return nil, fmt.Errorf("competition code is required")
	}

	path := "/competitions/" + url.PathEscape(competitionCode) + "/matches"
	query := map[string]string{
		"dateFrom": from.UTC().Format(dateLayout),
		"dateTo":   to.UTC().Format(dateLayout),
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s: %w", competitionCode, err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		out = append(out, mapMatchItem(item))
	}
	return out, nil
}

// FetchMatchByID looks up one match by its provider identifier. A 404 means
// the provider does not expose the match yet and reports found=false.
func (c *Client) FetchMatchByID(ctx context.Context, externalID int64) (usecase.ExternalMatch, bool, error) {
	if externalID <= 0 {
		return usecase.ExternalMatch{}, false, fmt.Errorf("external id must be greater than zero")
	}

	path := "/matches/" + strconv.FormatInt(externalID, 10)

	var item matchItem
	if err := c.doJSON(ctx, path, nil, &item); err != nil {
		if stderrors.Is(err, errProviderNotFound) {
			return usecase.ExternalMatch{}, false, nil
		}
		return usecase.ExternalMatch{}, false, fmt.Errorf("fetch match id=%d: %w", externalID, err)
	}
	return mapMatchItem(item), true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: status=404", errProviderNotFound)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value != "" && token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
