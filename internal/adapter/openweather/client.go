package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-data-etl/internal/observability"
)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 1 << 20

// Client fetches current weather from the OpenWeather API.
// It implements pipeline.Fetcher.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client. baseURL is the full current-weather
// endpoint, e.g. http://api.openweathermap.org/data/2.5/weather.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchCurrent returns the raw current-weather response body for city.
func (c *Client) FetchCurrent(ctx context.Context, city string) ([]byte, error) {
	if c.apiKey == "" {
		c.logger.Warn("openweather api key is empty, request will likely be rejected")
	}

	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
	}

	start := time.Now()
	body, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.APIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.APIRequests.WithLabelValues("success").Inc()
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, including appid.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("weather request: %w", uerr.Err)
		}
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
