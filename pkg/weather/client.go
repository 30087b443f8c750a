package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoNarrative is returned when the forecast body decodes but does not carry
// a narrative for tomorrow.
var ErrNoNarrative = errors.New("forecast narrative unavailable")

func noNarrative(reason string) error {
	return fmt.Errorf("%w: %s", ErrNoNarrative, reason)
}

// forecastPath is appended to the service base URL.
const forecastPath = "/api/weather/v1/geocode/%s/%s/forecast/daily/3day.json"

// Client fetches forecasts from the weather service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for forecast requests. A nil client
// keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each forecast request. Zero leaves the client's own
// timeout. The client given to WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client for the service at baseURL. The URL may carry
// basic auth credentials in its userinfo, as service bindings deliver them.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("weather service URL is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse weather service URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("weather service URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// ForecastURL builds the 3-day forecast URL for a coordinate.
func (c *Client) ForecastURL(coord Coordinate) string {
	return c.baseURL + fmt.Sprintf(forecastPath, url.PathEscape(coord.Latitude), url.PathEscape(coord.Longitude))
}

// FetchForecast returns tomorrow's narrative for the coordinate.
func (c *Client) FetchForecast(ctx context.Context, coord Coordinate) (string, error) {
	forecastURL := c.ForecastURL(coord)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, forecastURL, nil)
	if err != nil {
		return "", fmt.Errorf("create forecast request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do forecast request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read forecast response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather service returned %d: %s", resp.StatusCode, string(body))
	}

	var forecast ForecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return "", fmt.Errorf("unmarshal forecast response: %w", err)
	}

	return forecast.TomorrowNarrative()
}
