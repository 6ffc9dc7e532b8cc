package bookrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f model.BookFilter) ([]model.Book, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, isbn, published_date, copies_available)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.ISBN, b.PublishedDate, b.CopiesAvailable,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
		UPDATE books
		SET title = $2,
			author = $3,
			isbn = $4,
			published_date = $5,
			copies_available = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.ID, b.Title, b.Author, b.ISBN, b.PublishedDate, b.CopiesAvailable,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
		SELECT id, title, author, isbn, published_date, copies_available, created_at, updated_at
		FROM books
		WHERE id = $1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishedDate,
		&b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) List(ctx context.Context, f model.BookFilter) ([]model.Book, error) {
	q, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishedDate,
			&b.CopiesAvailable, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// buildListQuery assembles the filtered catalog listing. Substring
// matches on title/author/isbn are case-insensitive.
func buildListQuery(f model.BookFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Available != nil {
		if *f.Available {
			conds = append(conds, "copies_available > 0")
		} else {
			conds = append(conds, "copies_available <= 0")
		}
	}
	like := func(col, val string) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", col, len(args)))
	}
	if f.Title != "" {
		like("title", f.Title)
	}
	if f.Author != "" {
		like("author", f.Author)
	}
	if f.ISBN != "" {
		like("isbn", f.ISBN)
	}

	q := `SELECT id, title, author, isbn, published_date, copies_available, created_at, updated_at
FROM books`
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	q += "\nORDER BY title ASC, id ASC"
	return q, args
}
