package usersvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	userrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/user"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "USER_NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrBadInput  ErrCode = "BAD_INPUT"
	ErrTaken     ErrCode = "USERNAME_OR_EMAIL_TAKEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// UpdateReq carries the self-service profile fields. Empty fields are
// left unchanged.
type UpdateReq struct {
	Username string `json:"username" validate:"omitempty,min=1"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
}

type Service interface {
	// Get returns a user record; non-admin callers may only read
	// their own.
	Get(ctx context.Context, caller model.Identity, id int64) (*model.User, error)

	// Update changes username/email; non-admin callers may only touch
	// their own record.
	Update(ctx context.Context, caller model.Identity, id int64, req UpdateReq) (*model.User, error)

	// List returns all users. Admin only.
	List(ctx context.Context, caller model.Identity) ([]model.User, error)
}

type service struct{ r Repo }

var _ Repo = userrepo.Repo(nil)

func New(r Repo) Service { return &service{r: r} }

func (s *service) Get(ctx context.Context, caller model.Identity, id int64) (*model.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, makeErr(ErrForbidden)
	}
	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, caller model.Identity, id int64, req UpdateReq) (*model.User, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, makeErr(ErrForbidden)
	}

	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if v := strings.TrimSpace(req.Username); v != "" {
		u.Username = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		u.Email = v
	}

	if err := s.r.Update(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrTaken)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, caller model.Identity) ([]model.User, error) {
	if !caller.IsAdmin() {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.List(ctx)
}
