// model/transaction.go
package model

import "time"

// Transaction records one checkout and, once ReturnDate is set, its return.
// ReturnDate == nil means the book is currently out.
type Transaction struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	BookID       int64      `json:"book_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
}

// Returned reports whether the transaction is closed.
func (t *Transaction) Returned() bool { return t.ReturnDate != nil }
