package weather

// ForecastResponse is the subset of a daily forecast reply that is decoded.
type ForecastResponse struct {
	Forecasts []Forecast `json:"forecasts"`
}

// Forecast is a single day of a daily forecast.
type Forecast struct {
	Class          string `json:"class,omitempty"`
	DOW            string `json:"dow,omitempty"`
	FcstValidLocal string `json:"fcst_valid_local,omitempty"`
	MaxTemp        *int   `json:"max_temp,omitempty"`
	MinTemp        *int   `json:"min_temp,omitempty"`

	// Narrative is nil when the service omitted it.
	Narrative *string `json:"narrative,omitempty"`
}

// tomorrow is the forecasts index holding the next day of a 3-day forecast.
const tomorrow = 1

// TomorrowNarrative returns the narrative of the second forecast entry.
func (r *ForecastResponse) TomorrowNarrative() (string, error) {
	if r.Forecasts == nil {
		return "", noNarrative("response has no forecasts")
	}
	if len(r.Forecasts) <= tomorrow {
		return "", noNarrative("response has no forecast for tomorrow")
	}

	narrative := r.Forecasts[tomorrow].Narrative
	if narrative == nil {
		return "", noNarrative("tomorrow's forecast has no narrative")
	}
	return *narrative, nil
}
