package transaction

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/jwtx"
	circ "github.com/ZeyadHassan41/LibraryCapstoneProject/service/circulation"
)

type Controller struct {
	Svc circ.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/transactions/checkout
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "book_id is required"})
	}
	id, _ := jwtx.Identity(c)

	txn, err := h.Svc.Checkout(c.Request().Context(), id, req.BookID)
	if err != nil {
		switch circ.Code(err) {
		case circ.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "BOOK_NOT_FOUND", "message": "book not found"})
		case circ.ErrNoCopies:
			return c.JSON(http.StatusConflict, echo.Map{"code": "NO_COPIES_AVAILABLE", "message": "no copies available"})
		case circ.ErrAlreadyCheckedOut:
			return c.JSON(http.StatusConflict, echo.Map{"code": "ALREADY_CHECKED_OUT", "message": "you already have this book checked out"})
		case circ.ErrStorageConflict:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"code": "STORAGE_CONFLICT", "message": "concurrent update, retry"})
		default:
			h.Log.Error("checkout", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, txn)
}

// POST /v1/transactions/return
func (h *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "invalid ids"})
	}
	if req.TransactionID <= 0 && req.BookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "transaction_id or book_id is required"})
	}
	id, _ := jwtx.Identity(c)

	txn, err := h.Svc.Return(c.Request().Context(), id, circ.ReturnRef{
		TransactionID: req.TransactionID,
		BookID:        req.BookID,
	})
	if err != nil {
		switch circ.Code(err) {
		case circ.ErrTransactionNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "TRANSACTION_NOT_FOUND", "message": "transaction not found"})
		case circ.ErrNoActiveCheckout:
			return c.JSON(http.StatusNotFound, echo.Map{"code": "NO_ACTIVE_CHECKOUT", "message": "no active checkout found for this book"})
		case circ.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"code": "ALREADY_RETURNED", "message": "this transaction was already returned"})
		case circ.ErrBadReference:
			return c.JSON(http.StatusBadRequest, echo.Map{"code": "VALIDATION_ERROR", "message": "transaction_id or book_id is required"})
		case circ.ErrStorageConflict:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"code": "STORAGE_CONFLICT", "message": "concurrent update, retry"})
		default:
			h.Log.Error("return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, txn)
}

// GET /v1/transactions/history
func (h *Controller) History(c echo.Context) error {
	id, _ := jwtx.Identity(c)
	rows, err := h.Svc.History(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "INTERNAL", "message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
