package book

import (
	"time"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

// BookReq is the admin create/update payload.
type BookReq struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	ISBN            string `json:"isbn" validate:"required"`
	PublishedDate   string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	CopiesAvailable int64  `json:"copies_available" validate:"gte=0"`
}

func (r BookReq) toModel(id int64) (*model.Book, error) {
	b := &model.Book{
		ID:              id,
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            r.ISBN,
		CopiesAvailable: r.CopiesAvailable,
	}
	if r.PublishedDate != "" {
		d, err := time.Parse("2006-01-02", r.PublishedDate)
		if err != nil {
			return nil, err
		}
		b.PublishedDate = &d
	}
	return b, nil
}

// parseAvailable interprets the ?available= query param the way the
// catalog always has: 1/true/yes and 0/false/no, anything else is
// ignored.
func parseAvailable(raw string) *bool {
	switch raw {
	case "1", "true", "yes", "True", "TRUE", "Yes", "YES":
		v := true
		return &v
	case "0", "false", "no", "False", "FALSE", "No", "NO":
		v := false
		return &v
	}
	return nil
}
