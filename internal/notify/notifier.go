// Package notify implements the weather notification task: fetch the weekly
// forecast, render it as an HTML email with embedded icons, and send it.
package notify

import (
	"context"
	"fmt"

	"weathercron/internal/config"
	"weathercron/internal/weather"
	"weathercron/pkg/logging"
)

// ForecastFetcher is the weather client surface the notifier depends on
type ForecastFetcher interface {
	WeeklyForecast(ctx context.Context, lat, lon string) ([]weather.DailyForecast, error)
	FetchIcon(ctx context.Context, iconCode string) ([]byte, error)
}

// Notifier is the scheduled task body
type Notifier struct {
	cfg    *config.Config
	client ForecastFetcher
	sender Sender
	logger *logging.Logger
}

// New creates a notifier
func New(cfg *config.Config, client ForecastFetcher, sender Sender, logger *logging.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: client,
		sender: sender,
		logger: logger,
	}
}

// Run executes one notification: validate config, fetch forecast and icons,
// render, send. Icon failures degrade to placeholders; anything else is an
// error and no email is sent.
func (n *Notifier) Run(ctx context.Context) error {
	n.logger.Info("Weekly weather notification started")

	if err := n.cfg.ValidateNotifier(); err != nil {
		return err
	}

	n.logger.Info("Fetching weekly weather data", map[string]interface{}{
		"city": n.cfg.CityName,
		"lat":  n.cfg.Latitude,
		"lon":  n.cfg.Longitude,
	})

	forecast, err := n.client.WeeklyForecast(ctx, n.cfg.Latitude, n.cfg.Longitude)
	if err != nil {
		return fmt.Errorf("failed to retrieve weekly weather data: %w", err)
	}
	n.logger.Info("Forecast fetched", map[string]interface{}{"days": len(forecast)})

	images := make([]InlineImage, 0, len(forecast))
	fetchedCIDs := make(map[string]bool, len(forecast))
	for _, day := range forecast {
		if day.Icon == "" {
			continue
		}
		cid := IconCID(day)
		data, err := n.client.FetchIcon(ctx, day.Icon)
		if err != nil {
			n.logger.Warn("Could not fetch weather icon", map[string]interface{}{
				"icon":  day.Icon,
				"error": err.Error(),
			})
			continue
		}
		images = append(images, InlineImage{CID: cid, Data: data})
		fetchedCIDs[cid] = true
	}

	htmlBody, err := RenderHTML(n.cfg.CityName, forecast, fetchedCIDs)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("7-Day Weather Forecast for %s", n.cfg.CityName)
	if err := n.sender.Send(n.cfg.ToEmail, subject, htmlBody, images); err != nil {
		return err
	}

	n.logger.Info("Notification email sent", map[string]interface{}{"to": n.cfg.ToEmail})
	return nil
}
