package transaction

type CheckoutReq struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

// ReturnReq accepts either the transaction id or the book id; the book
// id resolves to the caller's open checkout of that book.
type ReturnReq struct {
	TransactionID int64 `json:"transaction_id" validate:"omitempty,gt=0"`
	BookID        int64 `json:"book_id" validate:"omitempty,gt=0"`
}
