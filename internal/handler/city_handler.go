package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skycities/internal/errors"
	"skycities/internal/model"
	"skycities/internal/service"
)

// CityHandler handles saved-city endpoints.
type CityHandler struct {
	cityService service.CityService
}

// NewCityHandler creates a new city handler.
func NewCityHandler(cityService service.CityService) *CityHandler {
	return &CityHandler{cityService: cityService}
}

// AddCityRequest represents an add-city request. Coordinates are pointers
// so zero values (equator, prime meridian) pass required validation.
type AddCityRequest struct {
	Name string   `json:"name" validate:"required"`
	Lat  *float64 `json:"lat" validate:"required"`
	Lon  *float64 `json:"lon" validate:"required"`
}

// FavoriteFlag accepts both wire forms the clients use for the favorite
// flag: a JSON boolean or a 0/1 number.
type FavoriteFlag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *FavoriteFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FavoriteFlag(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}
	return fmt.Errorf("is_favorite must be a boolean or a 0/1 number")
}

// FavoriteRequest represents a favorite-toggle request.
type FavoriteRequest struct {
	IsFavorite FavoriteFlag `json:"is_favorite"`
}

// FavoriteResponse represents a favorite-toggle response.
type FavoriteResponse struct {
	Success bool `json:"success"`
}

// CityResponse is the wire form of a city. is_favorite stays snake-cased
// and numeric for frontend compatibility; alreadyExists only appears on
// the duplicate-add response.
type CityResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	IsFavorite    int     `json:"is_favorite"`
	AlreadyExists bool    `json:"alreadyExists,omitempty"`
}

func toCityResponse(city *model.City) CityResponse {
	fav := 0
	if city.IsFavorite {
		fav = 1
	}
	return CityResponse{
		ID:         city.ID.String(),
		Name:       city.Name,
		Lat:        city.Lat,
		Lon:        city.Lon,
		IsFavorite: fav,
	}
}

// List godoc
// @Summary List the caller's saved cities
// @Tags cities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CityResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cities [get]
func (h *CityHandler) List(c echo.Context) error {
	ownerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	cities, err := h.cityService.List(c.Request().Context(), ownerID)
	if err != nil {
		c.Logger().Errorf("list cities: %v", err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	out := make([]CityResponse, 0, len(cities))
	for i := range cities {
		out = append(out, toCityResponse(&cities[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Add godoc
// @Summary Save a city for the caller
// @Description Returns 200 with the existing city when a same-named city within the coordinate tolerance is already saved, 201 otherwise.
// @Tags cities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddCityRequest true "City data"
// @Success 200 {object} CityResponse
// @Success 201 {object} CityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cities [post]
func (h *CityHandler) Add(c echo.Context) error {
	ownerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req AddCityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "name, lat and lon are required",
			Code:  "INVALID_INPUT",
		})
	}

	city, alreadyExists, err := h.cityService.Add(c.Request().Context(), ownerID, req.Name, *req.Lat, *req.Lon)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Errorf("add city: %v", err)
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp := toCityResponse(city)
	if alreadyExists {
		resp.AlreadyExists = true
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}

// DeleteOne godoc
// @Summary Delete one saved city
// @Tags cities
// @Security BearerAuth
// @Param id path string true "City ID"
// @Success 204 "deleted"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cities/{id} [delete]
func (h *CityHandler) DeleteOne(c echo.Context) error {
	ownerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	cityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid city ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.cityService.DeleteOne(c.Request().Context(), ownerID, cityID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Errorf("delete city: %v", err)
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteAll godoc
// @Summary Delete every saved city of the caller
// @Tags cities
// @Security BearerAuth
// @Success 204 "deleted"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cities [delete]
func (h *CityHandler) DeleteAll(c echo.Context) error {
	ownerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	// Zero deletions is still success; the operation is idempotent.
	if _, err := h.cityService.DeleteAll(c.Request().Context(), ownerID); err != nil {
		c.Logger().Errorf("delete all cities: %v", err)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// SetFavorite godoc
// @Summary Set the favorite flag on a saved city
// @Tags cities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "City ID"
// @Param request body FavoriteRequest true "Favorite flag"
// @Success 200 {object} FavoriteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cities/{id}/favorite [patch]
func (h *CityHandler) SetFavorite(c echo.Context) error {
	ownerID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	cityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid city ID",
			Code:  "INVALID_UUID",
		})
	}

	var req FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := h.cityService.SetFavorite(c.Request().Context(), ownerID, cityID, bool(req.IsFavorite)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Errorf("set favorite: %v", err)
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, FavoriteResponse{Success: true})
}
