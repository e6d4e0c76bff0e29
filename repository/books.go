package repository

import (
	"sort"
	"time"

	"github.com/emzola/bookrank/data"
)

type books interface {
	RankedBooks(limit int) []data.Book
	NewBooks(now time.Time) []data.Book
	GetBook(id string) (*data.Book, error)
}

// RankedBooks orders the set by rank, unranked books last, keeps the first limit
// books and renumbers them 1..n.
func (r *repository) RankedBooks(limit int) []data.Book {
	sorted := data.CloneBooks(r.books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOrder(sorted[i]) < rankOrder(sorted[j])
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	for i := range sorted {
		sorted[i].Rank = i + 1
	}
	return sorted
}

func rankOrder(b data.Book) int {
	if b.Rank <= 0 {
		return data.UnrankedPosition
	}
	return b.Rank
}

// NewBooks keeps books already flagged new or released within the new-arrival
// window before now, and flags all of them new.
func (r *repository) NewBooks(now time.Time) []data.Book {
	var out []data.Book
	for _, b := range r.books {
		if !b.IsNew && !b.ReleasedSince(now) {
			continue
		}
		b = b.Clone()
		b.IsNew = true
		out = append(out, b)
	}
	return out
}

// GetBook returns the book whose id equals id exactly.
func (r *repository) GetBook(id string) (*data.Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			book := b.Clone()
			return &book, nil
		}
	}
	return nil, ErrRecordNotFound
}
