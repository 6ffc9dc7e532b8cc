// Package circrepo is the storage collaborator of the checkout/return
// engine. All copy-count and return-date writes go through the guarded
// primitives below, inside one database transaction per operation.
package circrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

type HistoryRow struct {
	TransactionID int64      `json:"transaction_id"`
	BookID        int64      `json:"book_id"`
	BookTitle     string     `json:"book_title"`
	BookAuthor    string     `json:"book_author"`
	CheckoutDate  time.Time  `json:"checkout_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
}

// TxStore exposes the read-modify-write primitives available inside one
// atomic unit of work. Lookups marked ForUpdate take a row lock held
// until the unit commits or rolls back.
type TxStore interface {
	BookForUpdate(ctx context.Context, bookID int64) (*model.Book, error)

	// DecrementCopies takes one copy only if copies_available > 0 and
	// reports whether it did.
	DecrementCopies(ctx context.Context, bookID int64) (bool, error)
	IncrementCopies(ctx context.Context, bookID int64) error

	HasOpenTransaction(ctx context.Context, userID, bookID int64) (bool, error)
	InsertTransaction(ctx context.Context, userID, bookID int64) (*model.Transaction, error)
	TransactionForUpdate(ctx context.Context, txnID, userID int64) (*model.Transaction, error)
	OpenTransactionForUpdate(ctx context.Context, userID, bookID int64) (*model.Transaction, error)

	// SetReturned closes the transaction only if it is still open and
	// returns the recorded return date, or nil if it was already closed.
	SetReturned(ctx context.Context, txnID int64) (*time.Time, error)
}

type Store interface {
	// WithinTx runs fn as one atomic unit: every primitive call inside
	// fn is applied together on success and not at all on error.
	WithinTx(ctx context.Context, fn func(tx TxStore) error) error

	ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
}

type store struct{ db *sql.DB }

func New(db *sql.DB) Store { return &store{db: db} }

func (s *store) WithinTx(ctx context.Context, fn func(tx TxStore) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()
	if err = fn(&pgTx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func (s *store) ListByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	const q = `
		SELECT
			t.id            AS transaction_id,
			t.book_id       AS book_id,
			b.title         AS book_title,
			b.author        AS book_author,
			t.checkout_date AS checkout_date,
			t.return_date   AS return_date
		FROM transactions t
		JOIN books b ON b.id = t.book_id
		WHERE t.user_id = $1
		ORDER BY t.checkout_date DESC, t.id DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.TransactionID, &h.BookID, &h.BookTitle, &h.BookAuthor,
			&h.CheckoutDate, &h.ReturnDate,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) BookForUpdate(ctx context.Context, bookID int64) (*model.Book, error) {
	const q = `
		SELECT id, title, author, isbn, published_date, copies_available, created_at, updated_at
		FROM books
		WHERE id = $1
		FOR UPDATE`
	var b model.Book
	err := t.tx.QueryRowContext(ctx, q, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishedDate,
		&b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *pgTx) DecrementCopies(ctx context.Context, bookID int64) (bool, error) {
	// Guard: never drop below zero.
	const q = `
		UPDATE books
		SET copies_available = copies_available - 1,
			updated_at = NOW()
		WHERE id = $1
		AND copies_available > 0`
	res, err := t.tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (t *pgTx) IncrementCopies(ctx context.Context, bookID int64) error {
	const q = `
		UPDATE books
		SET copies_available = copies_available + 1,
			updated_at = NOW()
		WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, bookID)
	return err
}

func (t *pgTx) HasOpenTransaction(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL
		)`
	var open bool
	err := t.tx.QueryRowContext(ctx, q, userID, bookID).Scan(&open)
	return open, err
}

func (t *pgTx) InsertTransaction(ctx context.Context, userID, bookID int64) (*model.Transaction, error) {
	const q = `
		INSERT INTO transactions (user_id, book_id)
		VALUES ($1, $2)
		RETURNING id, checkout_date`
	txn := &model.Transaction{UserID: userID, BookID: bookID}
	if err := t.tx.QueryRowContext(ctx, q, userID, bookID).Scan(&txn.ID, &txn.CheckoutDate); err != nil {
		return nil, err
	}
	return txn, nil
}

func (t *pgTx) TransactionForUpdate(ctx context.Context, txnID, userID int64) (*model.Transaction, error) {
	const q = `
		SELECT id, user_id, book_id, checkout_date, return_date
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`
	return scanTxn(t.tx.QueryRowContext(ctx, q, txnID, userID))
}

func (t *pgTx) OpenTransactionForUpdate(ctx context.Context, userID, bookID int64) (*model.Transaction, error) {
	const q = `
		SELECT id, user_id, book_id, checkout_date, return_date
		FROM transactions
		WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL
		ORDER BY id
		LIMIT 1
		FOR UPDATE`
	return scanTxn(t.tx.QueryRowContext(ctx, q, userID, bookID))
}

func (t *pgTx) SetReturned(ctx context.Context, txnID int64) (*time.Time, error) {
	// Guard: a set return_date is never overwritten.
	const q = `
		UPDATE transactions
		SET return_date = NOW()
		WHERE id = $1
		AND return_date IS NULL
		RETURNING return_date`
	var rd time.Time
	err := t.tx.QueryRowContext(ctx, q, txnID).Scan(&rd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func scanTxn(row *sql.Row) (*model.Transaction, error) {
	var txn model.Transaction
	err := row.Scan(&txn.ID, &txn.UserID, &txn.BookID, &txn.CheckoutDate, &txn.ReturnDate)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
