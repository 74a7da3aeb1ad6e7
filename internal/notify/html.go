package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"weathercron/internal/weather"
)

// dayView is one rendered forecast day. When the icon image was fetched,
// IconCID references the embedded image; otherwise Placeholder is shown.
type dayView struct {
	weather.DailyForecast
	IconCID     string
	Placeholder string
	DateHeading string
}

type emailView struct {
	City string
	Days []dayView
}

var emailTemplate = template.Must(template.New("forecast").Parse(`<html><head><style>
body { font-family: sans-serif; line-height: 1.5; } h1 { color: #333; }
h2 { color: #555; border-bottom: 1px solid #eee; padding-bottom: 5px; margin-top: 20px;}
.day-forecast { margin-bottom: 15px; padding: 10px; border: 1px solid #ddd; border-radius: 5px; background-color: #f9f9f9; }
.weather-icon { vertical-align: middle; width: 50px; height: 50px; margin-right: 10px; } strong { color: #444; }
</style></head><body><h1>7-Day Weather Forecast for {{.City}}</h1>
{{range .Days}}<div class="day-forecast">
  <h2>{{.DayName}}, {{.DateHeading}}</h2>
  <p>
    {{if .IconCID}}<img src="cid:{{.IconCID}}" alt="{{.Description}}" class="weather-icon">{{else}}{{.Placeholder}}{{end}}
    <strong>Weather:</strong> {{.Description}} <br>
    <strong>High/Low:</strong> {{.HighTempC}}&deg;C / {{.LowTempC}}&deg;C <br>
    <strong>Wind:</strong> {{.WindSpeedMS}} m/s ({{.WindDirection}}) <br>
    <strong>Humidity:</strong> {{.Humidity}}% <br>
    <strong>Precipitation:</strong> {{.PrecipMM}} mm ({{.PrecipChance}}% chance) <br>
    <strong>UV Index:</strong> {{.UVIndex}} <br>
    <strong>Sunrise:</strong> {{.Sunrise}} / <strong>Sunset:</strong> {{.Sunset}}
  </p>
</div>
{{end}}<p><i>Weather data provided by OpenWeatherMap.</i></p></body></html>`))

// RenderHTML builds the email body for the weekly forecast. images maps
// icon content IDs that were successfully fetched; days without a fetched
// icon fall back to a text placeholder.
func RenderHTML(city string, forecast []weather.DailyForecast, fetchedCIDs map[string]bool) (string, error) {
	view := emailView{City: city}
	for _, day := range forecast {
		dv := dayView{
			DailyForecast: day,
			DateHeading:   day.Date.Format("January 02"),
			Placeholder:   fmt.Sprintf("(icon %s)", day.Icon),
		}
		cid := IconCID(day)
		if fetchedCIDs[cid] {
			dv.IconCID = cid
		}
		view.Days = append(view.Days, dv)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render forecast email: %w", err)
	}
	return buf.String(), nil
}

// IconCID returns the Content-ID used to embed a day's weather icon
func IconCID(day weather.DailyForecast) string {
	return fmt.Sprintf("icon_%s_%s", day.DateStr, day.Icon)
}
