package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycities/internal/cache"
	"skycities/internal/errors"
)

// noCache exercises the weather service without redis; the nil client
// behaves as a permanent cache miss.
var noCache *cache.Client

func TestWeatherService_Geocode(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"name":"Paris","latitude":48.8566,"longitude":2.3522,"admin1":"Ile-de-France","country":"France"}]}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{GeocodeURL: upstream.URL})
	results, err := svc.Geocode(context.Background(), "Paris")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Paris", results[0].Name)
	assert.InDelta(t, 48.8566, results[0].Latitude, 0.0001)
	assert.Equal(t, "France", results[0].Country)
}

func TestWeatherService_Geocode_NoResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{GeocodeURL: upstream.URL})
	results, err := svc.Geocode(context.Background(), "xyzzy")

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestWeatherService_Forecast(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.NotEmpty(t, q.Get("latitude"))
		assert.NotEmpty(t, q.Get("longitude"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"current": {
				"time": "2026-08-31T12:00",
				"temperature_2m": 21.5,
				"relative_humidity_2m": 60,
				"apparent_temperature": 20.9,
				"weather_code": 3,
				"wind_speed_10m": 12.4
			},
			"daily": {
				"time": ["2026-08-31"],
				"weather_code": [3],
				"temperature_2m_max": [24.1],
				"temperature_2m_min": [14.8]
			}
		}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{ForecastURL: upstream.URL})
	data, err := svc.Forecast(context.Background(), 48.8566, 2.3522, "")

	require.NoError(t, err)
	assert.InDelta(t, 21.5, data.Temperature, 0.001)
	assert.Equal(t, 3, data.WeatherCode)
	assert.InDelta(t, 12.4, data.WindSpeed, 0.001)
	require.Len(t, data.Daily.TemperatureMax, 1)
	assert.InDelta(t, 24.1, data.Daily.TemperatureMax[0], 0.001)
}

func TestWeatherService_Forecast_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{ForecastURL: upstream.URL})
	data, err := svc.Forecast(context.Background(), 48.8566, 2.3522, "celsius")

	assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
	assert.Nil(t, data)
}

func TestWeatherService_Forecast_IncompletePayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"time":"2026-08-31T12:00"}}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{ForecastURL: upstream.URL})
	_, err := svc.Forecast(context.Background(), 48.8566, 2.3522, "celsius")

	assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
}

func testWeatherData() *WeatherData {
	return &WeatherData{
		Temperature: 21.5,
		WeatherCode: 3,
		Daily: DailyForecast{
			TemperatureMax: []float64{24.1},
			TemperatureMin: []float64{14.8},
		},
	}
}

func TestWeatherService_Insight_NoKeyFallsBack(t *testing.T) {
	svc := NewWeatherService(noCache, WeatherConfig{})
	insight := svc.Insight(context.Background(), "Paris", testWeatherData())
	assert.Equal(t, insightFallbackNoKey, insight)
}

func TestWeatherService_Insight_UpstreamError_FallsBack(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{InsightURL: upstream.URL, InsightAPIKey: "key"})
	insight := svc.Insight(context.Background(), "Paris", testWeatherData())
	assert.Equal(t, insightFallbackError, insight)
}

func TestWeatherService_Insight_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Light jacket weather. Great day for a walk!"}]}}]}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService(noCache, WeatherConfig{InsightURL: upstream.URL, InsightAPIKey: "key"})
	insight := svc.Insight(context.Background(), "Paris", testWeatherData())
	assert.Equal(t, "Light jacket weather. Great day for a walk!", insight)
}
