package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skycities/internal/auth"
	"skycities/internal/errors"
)

// currentUser extracts the verified identity the JWT middleware attached to
// the request. Handlers receive it as an explicit value; nothing else about
// the request is trusted for identity.
func currentUser(c echo.Context) (uuid.UUID, *auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "invalid token",
			Code:  "FORBIDDEN",
		})
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "invalid token claims",
			Code:  "FORBIDDEN",
		})
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Error: "invalid token subject",
			Code:  "FORBIDDEN",
		})
	}

	return userID, claims, nil
}
