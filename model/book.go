// model/book.go
package model

import "time"

type Book struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	CopiesAvailable int64      `json:"copies_available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookFilter narrows catalog listings. Available is tri-state:
// nil means no availability filter.
type BookFilter struct {
	Available *bool
	Title     string
	Author    string
	ISBN      string
}
