package book

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	booksvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books  (admin)
func (h *Controller) Create(c echo.Context) error {
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": err.Error()})
	}
	b, err := req.toModel(0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid published_date"})
	}

	if err := h.Svc.Create(c.Request().Context(), b); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrIsbnTaken:
			return c.JSON(http.StatusConflict, echo.Map{"code": "ISBN_TAKEN", "message": "isbn already registered"})
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "bad input"})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT /v1/books/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": err.Error()})
	}
	b, err := req.toModel(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid published_date"})
	}

	if err := h.Svc.Update(c.Request().Context(), b); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "message": "book not found"})
		case booksvc.ErrIsbnTaken:
			return c.JSON(http.StatusConflict, echo.Map{"code": "ISBN_TAKEN", "message": "isbn already registered"})
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "bad input"})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /v1/books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "message": "book not found"})
		case booksvc.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"code": "BOOK_IN_USE", "message": "book has transactions and cannot be deleted"})
		default:
			h.Log.Error("book delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/books?available=&title=&author=&isbn=
func (h *Controller) List(c echo.Context) error {
	f := model.BookFilter{
		Available: parseAvailable(c.QueryParam("available")),
		Title:     c.QueryParam("title"),
		Author:    c.QueryParam("author"),
		ISBN:      c.QueryParam("isbn"),
	}
	rows, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NOT_FOUND", "message": "book not found"})
		default:
			h.Log.Error("book detail", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, row)
}
