package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/weatherrelay/pkg/conversation"
	"github.com/papercomputeco/weatherrelay/pkg/weather"
)

// CityEntity is the entity name that triggers a forecast lookup.
const CityEntity = "city"

// Forecaster fetches tomorrow's forecast narrative for a coordinate.
type Forecaster interface {
	FetchForecast(ctx context.Context, coord weather.Coordinate) (string, error)
}

// Enricher splices weather forecasts into dialog replies.
type Enricher struct {
	forecaster Forecaster
	lookup     func(city string) weather.Coordinate
	logger     *zap.Logger
}

// NewEnricher creates an Enricher resolving cities with weather.LookupCity.
func NewEnricher(forecaster Forecaster, logger *zap.Logger) *Enricher {
	return &Enricher{
		forecaster: forecaster,
		lookup:     weather.LookupCity,
		logger:     logger,
	}
}

// Enrich inspects a dialog reply and mutates it in place:
//   - a reply without output gets an empty output and is returned as is
//   - a reply whose first entity is a city gets its first output line replaced
//     with tomorrow's forecast for that city
//   - anything else is returned unchanged
//
// Only the first entity is considered. An unknown city or a failed forecast
// leaves the reply untouched.
func (e *Enricher) Enrich(ctx context.Context, payload conversation.Payload, resp *conversation.MessageResponse) *conversation.MessageResponse {
	if resp == nil {
		return nil
	}

	if resp.Output == nil {
		resp.Output = &conversation.Output{}
		enrichmentsTotal.WithLabelValues(enrichNoOutput).Inc()
		return resp
	}

	entity, ok := resp.FirstEntity()
	if !ok || entity.Entity != CityEntity {
		return resp
	}

	log := e.logger.With(
		zap.String("workspace_id", payload.WorkspaceID),
		zap.String("city", entity.Value),
	)

	coord := e.lookup(entity.Value)
	if coord.IsZero() {
		log.Warn("no coordinates for city, skipping forecast")
		enrichmentsTotal.WithLabelValues(enrichUnknownCity).Inc()
		return resp
	}

	startTime := time.Now()
	narrative, err := e.forecaster.FetchForecast(ctx, coord)
	observeUpstream(serviceWeather, startTime, err)
	if err != nil {
		log.Warn("failed to fetch forecast, returning reply unchanged", zap.Error(err))
		enrichmentsTotal.WithLabelValues(enrichFailed).Inc()
		return resp
	}

	if len(resp.Output.Text) == 0 {
		resp.Output.Text = []string{narrative}
	} else {
		resp.Output.Text[0] = narrative
	}

	log.Debug("reply enriched with forecast",
		zap.String("latitude", coord.Latitude),
		zap.String("longitude", coord.Longitude),
		zap.String("narrative_preview", truncate(narrative, 80)),
	)
	enrichmentsTotal.WithLabelValues(enrichApplied).Inc()

	return resp
}
