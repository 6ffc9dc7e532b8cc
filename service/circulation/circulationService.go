// Package circulation implements the checkout/return engine: the
// invariant-preserving transition between a book's available-copy
// counter and the transaction ledger, executed as one atomic unit of
// work per operation.
package circulation

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	circrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/circulation"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound        ErrCode = "BOOK_NOT_FOUND"
	ErrNoCopies            ErrCode = "NO_COPIES_AVAILABLE"
	ErrAlreadyCheckedOut   ErrCode = "ALREADY_CHECKED_OUT"
	ErrTransactionNotFound ErrCode = "TRANSACTION_NOT_FOUND"
	ErrNoActiveCheckout    ErrCode = "NO_ACTIVE_CHECKOUT"
	ErrAlreadyReturned     ErrCode = "ALREADY_RETURNED"
	ErrBadReference        ErrCode = "BAD_REFERENCE"
	ErrStorageConflict     ErrCode = "STORAGE_CONFLICT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the business error code, or "" for plain errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// ReturnRef identifies the checkout being returned: either the
// transaction id itself, or the book id to resolve the caller's open
// transaction. Exactly one should be set.
type ReturnRef struct {
	TransactionID int64
	BookID        int64
}

type HistoryRow = circrepo.HistoryRow

type Service interface {
	// Checkout lends one copy of a book to the caller.
	Checkout(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error)

	// Return closes an open checkout and frees the copy.
	Return(ctx context.Context, caller model.Identity, ref ReturnRef) (*model.Transaction, error)

	// History lists the caller's transactions, newest first.
	History(ctx context.Context, caller model.Identity) ([]HistoryRow, error)
}

// maxAttempts bounds retries of transient storage conflicts
// (serialization failures, deadlocks). Business errors never retry.
const maxAttempts = 3

type service struct {
	store circrepo.Store
	log   *slog.Logger
}

func New(store circrepo.Store, log *slog.Logger) Service {
	return &service{store: store, log: log}
}

func (s *service) Checkout(ctx context.Context, caller model.Identity, bookID int64) (*model.Transaction, error) {
	var txn *model.Transaction
	err := s.withRetry(ctx, "checkout", func() error {
		return s.store.WithinTx(ctx, func(tx circrepo.TxStore) error {
			book, err := tx.BookForUpdate(ctx, bookID)
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrBookNotFound)
			}
			if err != nil {
				return err
			}
			if book.CopiesAvailable <= 0 {
				return makeErr(ErrNoCopies)
			}

			open, err := tx.HasOpenTransaction(ctx, caller.UserID, bookID)
			if err != nil {
				return err
			}
			if open {
				return makeErr(ErrAlreadyCheckedOut)
			}

			ok, err := tx.DecrementCopies(ctx, bookID)
			if err != nil {
				return err
			}
			if !ok {
				return makeErr(ErrNoCopies)
			}

			txn, err = tx.InsertTransaction(ctx, caller.UserID, bookID)
			if isOpenCheckoutViolation(err) {
				// the partial unique index caught a duplicate the
				// precondition read missed
				return makeErr(ErrAlreadyCheckedOut)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func isOpenCheckoutViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == "transactions_one_open_key"
}

func (s *service) Return(ctx context.Context, caller model.Identity, ref ReturnRef) (*model.Transaction, error) {
	var txn *model.Transaction
	err := s.withRetry(ctx, "return", func() error {
		return s.store.WithinTx(ctx, func(tx circrepo.TxStore) error {
			var cur *model.Transaction
			var err error
			switch {
			case ref.TransactionID > 0:
				cur, err = tx.TransactionForUpdate(ctx, ref.TransactionID, caller.UserID)
				if errors.Is(err, sql.ErrNoRows) {
					return makeErr(ErrTransactionNotFound)
				}
			case ref.BookID > 0:
				cur, err = tx.OpenTransactionForUpdate(ctx, caller.UserID, ref.BookID)
				if errors.Is(err, sql.ErrNoRows) {
					return makeErr(ErrNoActiveCheckout)
				}
			default:
				return makeErr(ErrBadReference)
			}
			if err != nil {
				return err
			}
			if cur.Returned() {
				return makeErr(ErrAlreadyReturned)
			}

			returnedAt, err := tx.SetReturned(ctx, cur.ID)
			if err != nil {
				return err
			}
			if returnedAt == nil {
				return makeErr(ErrAlreadyReturned)
			}
			if err := tx.IncrementCopies(ctx, cur.BookID); err != nil {
				return err
			}

			cur.ReturnDate = returnedAt
			txn = cur
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) History(ctx context.Context, caller model.Identity) ([]HistoryRow, error) {
	return s.store.ListByUser(ctx, caller.UserID)
}

// withRetry reruns fn on transient storage conflicts with a small
// backoff, then surfaces ErrStorageConflict once attempts run out.
func (s *service) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		s.log.Warn("storage conflict", "op", op, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	s.log.Error("storage conflict not resolved", "op", op, "attempts", maxAttempts, "err", err)
	return makeErr(ErrStorageConflict)
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgerrcode.IsTransactionRollback(pgErr.Code)
}
