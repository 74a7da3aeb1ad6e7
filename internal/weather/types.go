package weather

import "time"

// DailyForecast is one day of the weekly forecast, normalized from the
// OpenWeather One Call daily payload.
type DailyForecast struct {
	Date          time.Time `json:"date"`
	DateStr       string    `json:"date_str"`
	DayName       string    `json:"day_name"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	HighTempC     float64   `json:"high_temp_c"`
	LowTempC      float64   `json:"low_temp_c"`
	WindSpeedMS   float64   `json:"wind_speed_ms"`
	WindDirection string    `json:"wind_direction"`
	Humidity      string    `json:"humidity"`
	DewPointC     float64   `json:"dew_point_c"`
	PrecipMM      float64   `json:"precip_mm"`
	PrecipChance  float64   `json:"precip_chance_pct"`
	UVIndex       string    `json:"uv_index"`
	Sunrise       string    `json:"sunrise"`
	Sunset        string    `json:"sunset"`
}

// oneCallResponse mirrors the subset of the One Call 3.0 payload we consume
type oneCallResponse struct {
	Daily []oneCallDaily `json:"daily"`
}

type oneCallDaily struct {
	Dt      int64 `json:"dt"`
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
	Temp    struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	WindSpeed float64  `json:"wind_speed"`
	WindDeg   *float64 `json:"wind_deg"`
	Humidity  *int     `json:"humidity"`
	DewPoint  float64  `json:"dew_point"`
	Rain      float64  `json:"rain"`
	Pop       float64  `json:"pop"`
	UVI       *float64 `json:"uvi"`
	Weather   []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}
