package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skycities/internal/cache"
	"skycities/internal/errors"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultInsightURL  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	forecastCacheTTL = 10 * time.Minute
	geocodeCacheTTL  = 24 * time.Hour

	// Static insight strings used when the AI upstream is unconfigured or
	// failing; the insight is decorative and must never block a response.
	insightFallbackNoKey = "Check the forecast and plan your day accordingly!"
	insightFallbackError = "Stay safe and enjoy your day!"
)

// GeocodeResult is one candidate location returned by the geocoder.
type GeocodeResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// DailyForecast holds the per-day forecast arrays.
type DailyForecast struct {
	Time           []string  `json:"time"`
	TemperatureMax []float64 `json:"temperatureMax"`
	TemperatureMin []float64 `json:"temperatureMin"`
	WeatherCode    []int     `json:"weatherCode"`
}

// WeatherData is the normalized forecast payload. Field names match the
// frontend types, camel-cased.
type WeatherData struct {
	Temperature         float64       `json:"temperature"`
	WeatherCode         int           `json:"weatherCode"`
	WindSpeed           float64       `json:"windSpeed"`
	Humidity            float64       `json:"humidity"`
	ApparentTemperature float64       `json:"apparentTemperature"`
	Time                string        `json:"time"`
	Daily               DailyForecast `json:"daily"`
}

// WeatherService proxies external geocoding, forecast and insight lookups
// so upstream API keys stay server-side. Forecast and geocode responses go
// through the fail-safe cache.
type WeatherService interface {
	Geocode(ctx context.Context, query string) ([]GeocodeResult, error)
	Forecast(ctx context.Context, lat, lon float64, unit string) (*WeatherData, error)
	// Insight returns a short one-liner about the weather. It degrades to a
	// static fallback string and never returns an error.
	Insight(ctx context.Context, cityName string, data *WeatherData) string
}

// WeatherConfig carries upstream endpoints and credentials. Zero-value
// fields fall back to the public open-meteo endpoints.
type WeatherConfig struct {
	ForecastURL   string
	GeocodeURL    string
	InsightURL    string
	InsightAPIKey string
}

type weatherService struct {
	cache      *cache.Client
	httpClient *http.Client
	cfg        WeatherConfig
}

// NewWeatherService creates a new weather proxy service.
func NewWeatherService(cacheClient *cache.Client, cfg WeatherConfig) WeatherService {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = defaultForecastURL
	}
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = defaultGeocodeURL
	}
	if cfg.InsightURL == "" {
		cfg.InsightURL = defaultInsightURL
	}
	return &weatherService{
		cache:      cacheClient,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
	}
}

// geocodeResponse mirrors the open-meteo geocoding search payload.
type geocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

func (s *weatherService) Geocode(ctx context.Context, query string) ([]GeocodeResult, error) {
	key := "geocode:" + strings.ToLower(strings.TrimSpace(query))
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []GeocodeResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	u := fmt.Sprintf("%s?name=%s&count=5&language=en&format=json", s.cfg.GeocodeURL, url.QueryEscape(query))
	var payload geocodeResponse
	if err := s.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}

	results := payload.Results
	if results == nil {
		results = []GeocodeResult{}
	}
	if data, err := json.Marshal(results); err == nil {
		_ = s.cache.Set(ctx, key, data, geocodeCacheTTL)
	}
	return results, nil
}

// forecastResponse mirrors the open-meteo forecast payload for the fields
// the dashboard consumes.
type forecastResponse struct {
	Current struct {
		Temperature2m       float64 `json:"temperature_2m"`
		RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed10m        float64 `json:"wind_speed_10m"`
		Time                string  `json:"time"`
	} `json:"current"`
	Daily struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		Temperature2mMax []float64 `json:"temperature_2m_max"`
		Temperature2mMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (s *weatherService) Forecast(ctx context.Context, lat, lon float64, unit string) (*WeatherData, error) {
	if unit != "fahrenheit" {
		unit = "celsius"
	}

	key := fmt.Sprintf("forecast:%.2f:%.2f:%s", lat, lon, unit)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached WeatherData
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	u := fmt.Sprintf("%s?latitude=%f&longitude=%f"+
		"&current=temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"+
		"&daily=weather_code,temperature_2m_max,temperature_2m_min"+
		"&timezone=auto&models=best_match", s.cfg.ForecastURL, lat, lon)
	if unit == "fahrenheit" {
		u += "&temperature_unit=fahrenheit"
	}

	var payload forecastResponse
	if err := s.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	if payload.Current.Time == "" || len(payload.Daily.Time) == 0 {
		return nil, errors.ErrUpstreamUnavailable
	}

	result := &WeatherData{
		Temperature:         payload.Current.Temperature2m,
		WeatherCode:         payload.Current.WeatherCode,
		WindSpeed:           payload.Current.WindSpeed10m,
		Humidity:            payload.Current.RelativeHumidity2m,
		ApparentTemperature: payload.Current.ApparentTemperature,
		Time:                payload.Current.Time,
		Daily: DailyForecast{
			Time:           payload.Daily.Time,
			TemperatureMax: payload.Daily.Temperature2mMax,
			TemperatureMin: payload.Daily.Temperature2mMin,
			WeatherCode:    payload.Daily.WeatherCode,
		},
	}

	if data, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, key, data, forecastCacheTTL)
	}
	return result, nil
}

// insightRequest and insightResponse mirror the generative-language REST
// shapes for a single-turn text prompt.
type insightPart struct {
	Text string `json:"text"`
}

type insightContent struct {
	Parts []insightPart `json:"parts"`
}

type insightRequest struct {
	Contents []insightContent `json:"contents"`
}

type insightResponse struct {
	Candidates []struct {
		Content insightContent `json:"content"`
	} `json:"candidates"`
}

func (s *weatherService) Insight(ctx context.Context, cityName string, data *WeatherData) string {
	if s.cfg.InsightAPIKey == "" {
		return insightFallbackNoKey
	}

	prompt := fmt.Sprintf(
		"The current weather in %s is %.1f degrees with a weather code of %d. "+
			"The max temp today is %.1f and min is %.1f. "+
			"Provide a brief, friendly 2-sentence insight about what to wear or what activity is best for this weather.",
		cityName, data.Temperature, data.WeatherCode,
		firstOrZero(data.Daily.TemperatureMax), firstOrZero(data.Daily.TemperatureMin),
	)

	req := insightRequest{
		Contents: []insightContent{{Parts: []insightPart{{Text: prompt}}}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return insightFallbackError
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.InsightURL+"?key="+url.QueryEscape(s.cfg.InsightAPIKey), bytes.NewReader(body))
	if err != nil {
		return insightFallbackError
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return insightFallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return insightFallbackError
	}

	var payload insightResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return insightFallbackError
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return insightFallbackError
	}

	text := strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return insightFallbackError
	}
	return text
}

func (s *weatherService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.ErrUpstreamUnavailable
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ErrUpstreamUnavailable
	}
	return nil
}

func firstOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
