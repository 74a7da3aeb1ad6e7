// Package weather fetches the weekly forecast from the OpenWeather
// One Call API 3.0.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weathercron/pkg/retry"
)

const (
	defaultBaseURL = "https://api.openweathermap.org"
	defaultIconURL = "http://openweathermap.org/img/wn"

	iconTimeout = 10 * time.Second
)

// Client talks to the OpenWeather API
type Client struct {
	baseURL    string
	iconURL    string
	apiKey     string
	httpClient *http.Client
	retryConf  retry.Config
}

// Option customizes the client
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithIconURL overrides the icon base URL
func WithIconURL(u string) Option {
	return func(c *Client) { c.iconURL = u }
}

// WithRetryConfig overrides retry behavior
func WithRetryConfig(conf retry.Config) Option {
	return func(c *Client) { c.retryConf = conf }
}

// NewClient creates a new weather API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		iconURL: defaultIconURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryConf: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeeklyForecast fetches the 7-day forecast for the given coordinates.
// The One Call response includes today at daily[0]; the forecast covers
// the next seven days (daily[1:8]).
func (c *Client) WeeklyForecast(ctx context.Context, lat, lon string) ([]DailyForecast, error) {
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	q.Set("exclude", "current,minutely,hourly,alerts")
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/data/3.0/onecall?%s", c.baseURL, q.Encode())

	var payload oneCallResponse
	err := retry.Do(ctx, c.retryConf, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch forecast: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("forecast request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil {
		return nil, err
	}

	if len(payload.Daily) == 0 {
		return nil, fmt.Errorf("daily forecast data not found in API response; check API plan/endpoint")
	}

	end := len(payload.Daily)
	if end > 8 {
		end = 8
	}
	daily := payload.Daily[1:end]
	if len(daily) == 0 {
		return nil, fmt.Errorf("forecast response contained no upcoming days")
	}

	forecast := make([]DailyForecast, 0, len(daily))
	for _, d := range daily {
		forecast = append(forecast, normalizeDaily(d))
	}
	return forecast, nil
}

func normalizeDaily(d oneCallDaily) DailyForecast {
	date := time.Unix(d.Dt, 0).UTC()

	f := DailyForecast{
		Date:          date,
		DateStr:       date.Format("2006-01-02"),
		DayName:       date.Weekday().String(),
		HighTempC:     round1(d.Temp.Max),
		LowTempC:      round1(d.Temp.Min),
		WindSpeedMS:   round1(d.WindSpeed),
		WindDirection: "N/A",
		Humidity:      "N/A",
		DewPointC:     round1(d.DewPoint),
		PrecipMM:      round1(d.Rain),
		PrecipChance:  round1(d.Pop * 100),
		UVIndex:       "N/A",
		Sunrise:       time.Unix(d.Sunrise, 0).UTC().Format("15:04 MST"),
		Sunset:        time.Unix(d.Sunset, 0).UTC().Format("15:04 MST"),
	}

	if len(d.Weather) > 0 {
		f.Description = capitalize(d.Weather[0].Description)
		f.Icon = d.Weather[0].Icon
	}
	if d.WindDeg != nil {
		f.WindDirection = WindDirection(*d.WindDeg)
	}
	if d.Humidity != nil {
		f.Humidity = strconv.Itoa(*d.Humidity)
	}
	if d.UVI != nil {
		f.UVIndex = strconv.FormatFloat(*d.UVI, 'f', -1, 64)
	}
	return f
}

// FetchIcon downloads a weather icon image. A missing icon is not fatal to
// the notification; callers degrade to a text placeholder.
func (c *Client) FetchIcon(ctx context.Context, iconCode string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, iconTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s@2x.png", c.iconURL, iconCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch icon %s: %w", iconCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("icon request for %s failed with status %d", iconCode, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon %s: %w", iconCode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetched empty content for icon %s", iconCode)
	}
	return data, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
