package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"weathercron/internal/weather"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Fetch and print the 7-day forecast",
	Long:  `Fetches the weekly forecast for the configured coordinates and prints it as a table, without sending email.`,
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.OpenWeatherAPIKey == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY is not set")
	}
	if cfg.Latitude == "" || cfg.Longitude == "" {
		return fmt.Errorf("LATITUDE and LONGITUDE must be set")
	}

	client := weather.NewClient(cfg.OpenWeatherAPIKey)
	forecast, err := client.WeeklyForecast(cmd.Context(), cfg.Latitude, cfg.Longitude)
	if err != nil {
		return err
	}

	fmt.Printf("7-day forecast for %s (%s, %s)\n\n", cfg.CityName, cfg.Latitude, cfg.Longitude)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Day", "Weather", "High/Low", "Wind", "Humidity", "Precip", "UV", "Sunrise/Sunset")

	for _, day := range forecast {
		table.Append(
			fmt.Sprintf("%s %s", day.DayName, day.DateStr),
			day.Description,
			fmt.Sprintf("%.1f / %.1f C", day.HighTempC, day.LowTempC),
			fmt.Sprintf("%.1f m/s %s", day.WindSpeedMS, day.WindDirection),
			day.Humidity+"%",
			fmt.Sprintf("%.1f mm (%.0f%%)", day.PrecipMM, day.PrecipChance),
			day.UVIndex,
			day.Sunrise+" / "+day.Sunset,
		)
	}

	table.Render()
	return nil
}
