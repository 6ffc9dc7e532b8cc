// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

const identityKey = "identity"

// FromToken reads the caller identity out of the verified JWT that
// echo-jwt stashed in the context.
func FromToken(c echo.Context) (model.Identity, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return model.Identity{}, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, errors.New("invalid jwt claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return model.Identity{}, errors.New("sub missing in claims")
	}

	role := model.RoleUser
	if r, ok := claims["role"].(string); ok && r != "" {
		role = model.Role(r)
	}

	return model.Identity{UserID: int64(sub), Role: role}, nil
}

// Store puts a resolved identity on the request context.
func Store(c echo.Context, id model.Identity) { c.Set(identityKey, id) }

// Identity returns the identity stored by the auth middleware.
func Identity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}
