package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/jwtx"
	usersvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/users  (admin)
func (h *Controller) List(c echo.Context) error {
	id, _ := jwtx.Identity(c)
	rows, err := h.Svc.List(c.Request().Context(), id)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "message": "admin only"})
		default:
			h.Log.Error("user list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/users/:id  (self or admin)
func (h *Controller) Get(c echo.Context) error {
	target, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || target <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid id"})
	}
	id, _ := jwtx.Identity(c)

	u, err := h.Svc.Get(c.Request().Context(), id, target)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "message": "you can only access your own user data"})
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "message": "user not found"})
		default:
			h.Log.Error("user get", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /v1/users/:id  (self or admin)
func (h *Controller) Update(c echo.Context) error {
	target, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || target <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid id"})
	}
	var req usersvc.UpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": err.Error()})
	}
	id, _ := jwtx.Identity(c)

	u, err := h.Svc.Update(c.Request().Context(), id, target, req)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"code": "FORBIDDEN", "message": "you can only update your own user data"})
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "message": "user not found"})
		case usersvc.ErrTaken:
			return c.JSON(http.StatusConflict, echo.Map{"code": "USERNAME_OR_EMAIL_TAKEN", "message": "username or email already in use"})
		default:
			h.Log.Error("user update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, u)
}
