package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"skycities/internal/auth"
	"skycities/internal/config"
	apperrors "skycities/internal/errors"
	"skycities/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	cityHandler *handler.CityHandler,
	weatherHandler *handler.WeatherHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/health", healthHandler.Health)

	// Secured routes (require JWT authentication). A missing token is 401,
	// a token that fails format or signature verification is 403; the
	// route handler never runs on either.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: "missing bearer token",
					Code:  "UNAUTHORIZED",
				})
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "FORBIDDEN",
			})
		},
	}))

	// City routes
	secured.GET("/cities", cityHandler.List)
	secured.POST("/cities", cityHandler.Add)
	secured.DELETE("/cities", cityHandler.DeleteAll)
	secured.DELETE("/cities/:id", cityHandler.DeleteOne)
	secured.PATCH("/cities/:id/favorite", cityHandler.SetFavorite)

	// Weather proxy routes
	secured.GET("/geocode", weatherHandler.Geocode)
	secured.GET("/weather", weatherHandler.Forecast)
	secured.POST("/weather/insight", weatherHandler.Insight)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
