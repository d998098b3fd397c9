package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"skycities/internal/errors"
	"skycities/internal/service"
)

// WeatherHandler handles the geocoding, forecast and insight proxies.
type WeatherHandler struct {
	weatherService service.WeatherService
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// InsightRequest represents an insight request for a city's weather.
type InsightRequest struct {
	City    string               `json:"city" validate:"required"`
	Weather *service.WeatherData `json:"weather" validate:"required"`
}

// InsightResponse carries the one-line weather insight.
type InsightResponse struct {
	Insight string `json:"insight"`
}

// Geocode godoc
// @Summary Look up location candidates for a free-text query
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {array} service.GeocodeResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /geocode [get]
func (h *WeatherHandler) Geocode(c echo.Context) error {
	if _, _, err := currentUser(c); err != nil {
		return err
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "query parameter q is required",
			Code:  "INVALID_INPUT",
		})
	}

	results, err := h.weatherService.Geocode(c.Request().Context(), query)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Errorf("geocode: %v", err)
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, results)
}

// Forecast godoc
// @Summary Fetch current and daily forecast for coordinates
// @Tags weather
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param unit query string false "celsius (default) or fahrenheit"
// @Success 200 {object} service.WeatherData
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /weather [get]
func (h *WeatherHandler) Forecast(c echo.Context) error {
	if _, _, err := currentUser(c); err != nil {
		return err
	}

	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if latErr != nil || lonErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "lat and lon must be valid coordinates",
			Code:  "INVALID_INPUT",
		})
	}

	unit := c.QueryParam("unit")
	if unit != "" && unit != "celsius" && unit != "fahrenheit" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unit must be celsius or fahrenheit",
			Code:  "INVALID_INPUT",
		})
	}

	data, err := h.weatherService.Forecast(c.Request().Context(), lat, lon, unit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Errorf("forecast: %v", err)
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, data)
}

// Insight godoc
// @Summary Generate a short weather insight for a city
// @Description Falls back to a static string when the AI upstream is unconfigured or unavailable.
// @Tags weather
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InsightRequest true "City and weather data"
// @Success 200 {object} InsightResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /weather/insight [post]
func (h *WeatherHandler) Insight(c echo.Context) error {
	if _, _, err := currentUser(c); err != nil {
		return err
	}

	var req InsightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "city and weather are required",
			Code:  "INVALID_INPUT",
		})
	}

	insight := h.weatherService.Insight(c.Request().Context(), req.City, req.Weather)
	return c.JSON(http.StatusOK, InsightResponse{Insight: insight})
}
