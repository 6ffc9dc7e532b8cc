package circulation_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
	circrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/circulation"
)

// memStore is an in-memory circrepo.Store. A single mutex serializes
// atomic units the way row locks do in Postgres, and a snapshot taken
// at unit start gives all-or-nothing semantics on error.
type memStore struct {
	mu        sync.Mutex
	books     map[int64]*model.Book
	txns      []*model.Transaction
	nextTxnID int64
}

var _ circrepo.Store = (*memStore)(nil)

func newMemStore(books ...*model.Book) *memStore {
	s := &memStore{books: make(map[int64]*model.Book), nextTxnID: 1}
	for _, b := range books {
		cp := *b
		s.books[b.ID] = &cp
	}
	return s
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx circrepo.TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapBooks := make(map[int64]*model.Book, len(s.books))
	for id, b := range s.books {
		cp := *b
		snapBooks[id] = &cp
	}
	snapTxns := make([]*model.Transaction, len(s.txns))
	for i, t := range s.txns {
		cp := *t
		snapTxns[i] = &cp
	}
	snapID := s.nextTxnID

	if err := fn(&memTx{s: s}); err != nil {
		s.books = snapBooks
		s.txns = snapTxns
		s.nextTxnID = snapID
		return err
	}
	return nil
}

func (s *memStore) ListByUser(ctx context.Context, userID int64) ([]circrepo.HistoryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []circrepo.HistoryRow
	for _, t := range s.txns {
		if t.UserID != userID {
			continue
		}
		row := circrepo.HistoryRow{
			TransactionID: t.ID,
			BookID:        t.BookID,
			CheckoutDate:  t.CheckoutDate,
			ReturnDate:    t.ReturnDate,
		}
		if b, ok := s.books[t.BookID]; ok {
			row.BookTitle = b.Title
			row.BookAuthor = b.Author
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CheckoutDate.Equal(out[j].CheckoutDate) {
			return out[i].CheckoutDate.After(out[j].CheckoutDate)
		}
		return out[i].TransactionID > out[j].TransactionID
	})
	return out, nil
}

// state helpers for assertions

func (s *memStore) copies(bookID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[bookID].CopiesAvailable
}

func (s *memStore) openCount(userID, bookID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.txns {
		if t.UserID == userID && t.BookID == bookID && t.ReturnDate == nil {
			n++
		}
	}
	return n
}

type memTx struct{ s *memStore }

func (t *memTx) BookForUpdate(ctx context.Context, bookID int64) (*model.Book, error) {
	b, ok := t.s.books[bookID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) DecrementCopies(ctx context.Context, bookID int64) (bool, error) {
	b, ok := t.s.books[bookID]
	if !ok || b.CopiesAvailable <= 0 {
		return false, nil
	}
	b.CopiesAvailable--
	return true, nil
}

func (t *memTx) IncrementCopies(ctx context.Context, bookID int64) error {
	if b, ok := t.s.books[bookID]; ok {
		b.CopiesAvailable++
	}
	return nil
}

func (t *memTx) HasOpenTransaction(ctx context.Context, userID, bookID int64) (bool, error) {
	for _, txn := range t.s.txns {
		if txn.UserID == userID && txn.BookID == bookID && txn.ReturnDate == nil {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertTransaction(ctx context.Context, userID, bookID int64) (*model.Transaction, error) {
	txn := &model.Transaction{
		ID:           t.s.nextTxnID,
		UserID:       userID,
		BookID:       bookID,
		CheckoutDate: time.Now(),
	}
	t.s.nextTxnID++
	t.s.txns = append(t.s.txns, txn)
	cp := *txn
	return &cp, nil
}

func (t *memTx) TransactionForUpdate(ctx context.Context, txnID, userID int64) (*model.Transaction, error) {
	for _, txn := range t.s.txns {
		if txn.ID == txnID && txn.UserID == userID {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *memTx) OpenTransactionForUpdate(ctx context.Context, userID, bookID int64) (*model.Transaction, error) {
	for _, txn := range t.s.txns {
		if txn.UserID == userID && txn.BookID == bookID && txn.ReturnDate == nil {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (t *memTx) SetReturned(ctx context.Context, txnID int64) (*time.Time, error) {
	for _, txn := range t.s.txns {
		if txn.ID == txnID {
			if txn.ReturnDate != nil {
				return nil, nil
			}
			now := time.Now()
			txn.ReturnDate = &now
			return &now, nil
		}
	}
	return nil, nil
}
