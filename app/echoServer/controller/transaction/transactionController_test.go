package transaction

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/jwtx"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	circ "github.com/ZeyadHassan41/LibraryCapstoneProject/service/circulation"
)

type svcMock struct {
	checkoutFn func(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error)
	returnFn   func(ctx context.Context, caller model.Identity, ref circ.ReturnRef) (*model.Transaction, error)
	historyFn  func(ctx context.Context, caller model.Identity) ([]circ.HistoryRow, error)
}

var _ circ.Service = (*svcMock)(nil)

func (m *svcMock) Checkout(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error) {
	return m.checkoutFn(ctx, caller, bookID)
}
func (m *svcMock) Return(ctx context.Context, caller model.Identity, ref circ.ReturnRef) (*model.Transaction, error) {
	return m.returnFn(ctx, caller, ref)
}
func (m *svcMock) History(ctx context.Context, caller model.Identity) ([]circ.HistoryRow, error) {
	return m.historyFn(ctx, caller)
}

func newCtx(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	jwtx.Store(c, model.Identity{UserID: 5, Role: model.RoleUser})
	return c, rec
}

func newController(m *svcMock) *Controller {
	return &Controller{
		Svc: m,
		V:   validator.New(),
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestCheckout_Created(t *testing.T) {
	m := &svcMock{
		checkoutFn: func(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error) {
			require.Equal(t, int64(5), caller.UserID)
			require.Equal(t, int64(3), bookID)
			return &model.Transaction{ID: 1, UserID: 5, BookID: 3}, nil
		},
	}
	c, rec := newCtx(t, `{"book_id":3}`)

	require.NoError(t, newController(m).Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"book_id":3`)
}

func TestCheckout_MissingBookID(t *testing.T) {
	c, rec := newCtx(t, `{}`)

	require.NoError(t, newController(&svcMock{}).Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCheckout_StatusMapping(t *testing.T) {
	cases := []struct {
		code circ.ErrCode
		want int
	}{
		{circ.ErrBookNotFound, http.StatusNotFound},
		{circ.ErrNoCopies, http.StatusConflict},
		{circ.ErrAlreadyCheckedOut, http.StatusConflict},
		{circ.ErrStorageConflict, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		m := &svcMock{
			checkoutFn: func(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error) {
				return nil, codeErr(tc.code)
			},
		}
		c, rec := newCtx(t, `{"book_id":3}`)
		require.NoError(t, newController(m).Checkout(c))
		require.Equal(t, tc.want, rec.Code, "code=%s", tc.code)
		require.Contains(t, rec.Body.String(), string(tc.code))
	}
}

func TestReturn_OK(t *testing.T) {
	m := &svcMock{
		returnFn: func(ctx context.Context, caller model.Identity, ref circ.ReturnRef) (*model.Transaction, error) {
			require.Equal(t, int64(9), ref.TransactionID)
			return &model.Transaction{ID: 9, UserID: 5, BookID: 3}, nil
		},
	}
	c, rec := newCtx(t, `{"transaction_id":9}`)

	require.NoError(t, newController(m).Return(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReturn_NeitherIDGiven(t *testing.T) {
	c, rec := newCtx(t, `{}`)

	require.NoError(t, newController(&svcMock{}).Return(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "transaction_id or book_id is required")
}

func TestReturn_StatusMapping(t *testing.T) {
	cases := []struct {
		code circ.ErrCode
		want int
	}{
		{circ.ErrTransactionNotFound, http.StatusNotFound},
		{circ.ErrNoActiveCheckout, http.StatusNotFound},
		{circ.ErrAlreadyReturned, http.StatusConflict},
		{circ.ErrStorageConflict, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		m := &svcMock{
			returnFn: func(ctx context.Context, caller model.Identity, ref circ.ReturnRef) (*model.Transaction, error) {
				return nil, codeErr(tc.code)
			},
		}
		c, rec := newCtx(t, `{"transaction_id":9}`)
		require.NoError(t, newController(m).Return(c))
		require.Equal(t, tc.want, rec.Code, "code=%s", tc.code)
		require.Contains(t, rec.Body.String(), string(tc.code))
	}
}

func TestHistory_OK(t *testing.T) {
	m := &svcMock{
		historyFn: func(ctx context.Context, caller model.Identity) ([]circ.HistoryRow, error) {
			require.Equal(t, int64(5), caller.UserID)
			return []circ.HistoryRow{{TransactionID: 1, BookID: 3, BookTitle: "T"}}, nil
		},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	jwtx.Store(c, model.Identity{UserID: 5, Role: model.RoleUser})

	require.NoError(t, newController(m).History(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"book_title":"T"`)
}

// codeErr builds a service error carrying the given code.
type testCoded struct{ c circ.ErrCode }

func (e testCoded) Error() string      { return string(e.c) }
func (e testCoded) Code() circ.ErrCode { return e.c }
func codeErr(c circ.ErrCode) error     { return testCoded{c: c} }
