package repository

import "github.com/emzola/bookrank/data"

type Repository interface {
	books
}

// repository serves the static fallback book set. The set is never modified after New;
// every read hands out copies.
type repository struct {
	books []data.Book
}

// New creates a new instance of Repository over a copy of books.
func New(books []data.Book) *repository {
	return &repository{books: data.CloneBooks(books)}
}
