package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	bookrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/book"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "BOOK_NOT_FOUND"
	ErrIsbnTaken ErrCode = "ISBN_TAKEN"
	ErrBadInput  ErrCode = "BAD_INPUT"
	ErrInUse     ErrCode = "BOOK_IN_USE"
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

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter) ([]model.Book, error)
}

type Service interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	Detail(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter) ([]model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

var _ Repo = bookrepo.Repo(nil)

func (s *service) Create(ctx context.Context, b *model.Book) error {
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" ||
		strings.TrimSpace(b.ISBN) == "" || b.CopiesAvailable < 0 {
		return makeErr(ErrBadInput)
	}
	if err := s.r.Create(ctx, b); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *service) Update(ctx context.Context, b *model.Book) error {
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" ||
		strings.TrimSpace(b.ISBN) == "" || b.CopiesAvailable < 0 {
		return makeErr(ErrBadInput)
	}
	if err := s.r.Update(ctx, b); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		// transactions reference books; a book with history cannot go
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return makeErr(ErrInUse)
		}
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return b, nil
}

func (s *service) List(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	return s.r.List(ctx, f)
}

func mapStoreErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return makeErr(ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.ConstraintName), "isbn") ||
			strings.Contains(strings.ToLower(pgErr.Message), "isbn") {
			return makeErr(ErrIsbnTaken)
		}
	}
	return err
}
