package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weathercron/pkg/retry"
)

func noRetry() retry.Config {
	return retry.Config{
		MaxRetries:     0,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     1.0,
	}
}

func dailyEntry(dt int64, desc, icon string) string {
	return fmt.Sprintf(`{
		"dt": %d,
		"sunrise": %d,
		"sunset": %d,
		"temp": {"min": 3.14, "max": 12.36},
		"wind_speed": 4.27,
		"wind_deg": 90,
		"humidity": 68,
		"dew_point": 1.96,
		"rain": 0.52,
		"pop": 0.35,
		"uvi": 3.2,
		"weather": [{"description": "%s", "icon": "%s"}]
	}`, dt, dt+21600, dt+64800, desc, icon)
}

func forecastServer(t *testing.T, days int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/3.0/onecall" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}

		base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC).Unix()
		entries := make([]string, 0, days)
		for i := 0; i < days; i++ {
			entries = append(entries, dailyEntry(base+int64(i)*86400, "scattered clouds", "03d"))
		}
		fmt.Fprintf(w, `{"daily": [%s]}`, strings.Join(entries, ","))
	}))
}

// TestWeeklyForecast_SlicesTomorrowOnward tests that today (daily[0]) is
// dropped and at most seven days are returned
func TestWeeklyForecast_SlicesTomorrowOnward(t *testing.T) {
	srv := forecastServer(t, 10)
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	forecast, err := c.WeeklyForecast(context.Background(), "42.36", "-71.05")
	if err != nil {
		t.Fatalf("WeeklyForecast failed: %v", err)
	}

	if len(forecast) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(forecast))
	}
	if forecast[0].DateStr != "2026-08-30" {
		t.Errorf("Expected first forecast day to be tomorrow, got %s", forecast[0].DateStr)
	}
}

// TestWeeklyForecast_Normalization tests rounding and derived fields
func TestWeeklyForecast_Normalization(t *testing.T) {
	srv := forecastServer(t, 3)
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	forecast, err := c.WeeklyForecast(context.Background(), "42.36", "-71.05")
	if err != nil {
		t.Fatalf("WeeklyForecast failed: %v", err)
	}

	day := forecast[0]
	if day.HighTempC != 12.4 {
		t.Errorf("Expected high temp rounded to 12.4, got %v", day.HighTempC)
	}
	if day.LowTempC != 3.1 {
		t.Errorf("Expected low temp rounded to 3.1, got %v", day.LowTempC)
	}
	if day.WindSpeedMS != 4.3 {
		t.Errorf("Expected wind speed rounded to 4.3, got %v", day.WindSpeedMS)
	}
	if day.WindDirection != "E" {
		t.Errorf("Expected wind direction E for 90 degrees, got %s", day.WindDirection)
	}
	if day.PrecipChance != 35 {
		t.Errorf("Expected precip chance 35, got %v", day.PrecipChance)
	}
	if day.Humidity != "68" {
		t.Errorf("Expected humidity 68, got %s", day.Humidity)
	}
	if day.Description != "Scattered clouds" {
		t.Errorf("Expected capitalized description, got %q", day.Description)
	}
	if day.DayName != day.Date.Weekday().String() {
		t.Errorf("Day name %s does not match date %s", day.DayName, day.Date)
	}
}

// TestWeeklyForecast_MissingOptionalFields tests degradation to N/A
func TestWeeklyForecast_MissingOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"daily": [
			{"dt": 1756512000, "temp": {"min": 1, "max": 2}},
			{"dt": 1756598400, "temp": {"min": 1, "max": 2}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	forecast, err := c.WeeklyForecast(context.Background(), "1", "2")
	if err != nil {
		t.Fatalf("WeeklyForecast failed: %v", err)
	}

	day := forecast[0]
	if day.WindDirection != "N/A" {
		t.Errorf("Expected N/A wind direction, got %s", day.WindDirection)
	}
	if day.Humidity != "N/A" {
		t.Errorf("Expected N/A humidity, got %s", day.Humidity)
	}
	if day.UVIndex != "N/A" {
		t.Errorf("Expected N/A UV index, got %s", day.UVIndex)
	}
}

// TestWeeklyForecast_NoDailyData tests the error when the daily key is absent
func TestWeeklyForecast_NoDailyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current": {}}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	_, err := c.WeeklyForecast(context.Background(), "1", "2")
	if err == nil {
		t.Fatal("Expected error when daily data is missing")
	}
	if !strings.Contains(err.Error(), "daily forecast data not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestWeeklyForecast_RetriesServerErrors tests transient 5xx retry
func TestWeeklyForecast_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC).Unix()
		fmt.Fprintf(w, `{"daily": [%s,%s]}`,
			dailyEntry(base, "rain", "10d"), dailyEntry(base+86400, "rain", "10d"))
	}))
	defer srv.Close()

	conf := noRetry()
	conf.MaxRetries = 2
	c := NewClient("test-key", WithBaseURL(srv.URL), WithRetryConfig(conf))
	forecast, err := c.WeeklyForecast(context.Background(), "1", "2")
	if err != nil {
		t.Fatalf("Expected retry to recover, got: %v", err)
	}
	if len(forecast) != 1 {
		t.Errorf("Expected 1 forecast day, got %d", len(forecast))
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

// TestFetchIcon tests icon download and empty-content handling
func TestFetchIcon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/10d@2x.png":
			w.Write([]byte("png-bytes"))
		case "/empty@2x.png":
			// 200 with no body
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", WithIconURL(srv.URL))

	data, err := c.FetchIcon(context.Background(), "10d")
	if err != nil {
		t.Fatalf("FetchIcon failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Unexpected icon data: %q", data)
	}

	if _, err := c.FetchIcon(context.Background(), "empty"); err == nil {
		t.Error("Expected error for empty icon content")
	}
	if _, err := c.FetchIcon(context.Background(), "missing"); err == nil {
		t.Error("Expected error for missing icon")
	}
}
