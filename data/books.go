package data

import "time"

// Rating is a whole-star rating between MinRating and MaxRating.
type Rating int

const (
	MinRating     Rating = 1
	MaxRating     Rating = 5
	DefaultRating Rating = 3
)

// Valid reports whether r lies in [MinRating, MaxRating].
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

const (
	// UnknownAuthor replaces a missing author name.
	UnknownAuthor = "不明"
	// PlaceholderImageURL is used when the vendor supplies no cover image.
	PlaceholderImageURL = "https://images.unsplash.com/photo-1543002588-bfa74002ed7e"
	// ReleaseDateLayout is the layout of Book.ReleaseDate.
	ReleaseDateLayout = "2006-01-02"
	// NewArrivalWindow is how far back a release date may lie for a book to count as new.
	NewArrivalWindow = 30 * 24 * time.Hour
	// UnrankedPosition orders books without a rank after every ranked book.
	UnrankedPosition = 999
)

// DefaultGenres is attached to every normalized book. The vendor genre id is not mapped yet.
var DefaultGenres = []string{"小説", "文学"}

// Book defines the display model shared by the live and fallback data paths.
// Zero values stand for "not set" on the optional fields.
type Book struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Author        string   `json:"author" yaml:"author"`
	ImageURL      string   `json:"imageUrl" yaml:"imageUrl"`
	ImageAlt      string   `json:"imageAlt" yaml:"imageAlt"`
	Rating        Rating   `json:"rating" yaml:"rating"`
	Rank          int      `json:"rank,omitempty" yaml:"rank"`
	ReleaseDate   string   `json:"releaseDate,omitempty" yaml:"releaseDate"`
	ReviewCount   int      `json:"reviewCount,omitempty" yaml:"reviewCount"`
	PurchaseCount int      `json:"purchaseCount,omitempty" yaml:"purchaseCount"`
	IsNew         bool     `json:"isNew,omitempty" yaml:"isNew"`
	Description   string   `json:"description,omitempty" yaml:"description"`
	Genre         []string `json:"genre,omitempty" yaml:"genre"`
	Publisher     string   `json:"publisher,omitempty" yaml:"publisher"`
	PurchaseURL   string   `json:"purchaseUrl,omitempty" yaml:"purchaseUrl"`
}

// Clone returns a copy of b that shares no slices with it.
func (b Book) Clone() Book {
	if b.Genre != nil {
		b.Genre = append([]string(nil), b.Genre...)
	}
	return b
}

// ReleaseTime parses ReleaseDate as a UTC date.
func (b Book) ReleaseTime() (time.Time, bool) {
	if b.ReleaseDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ReleaseDateLayout, b.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ReleasedSince reports whether the book's release date is at or after
// NewArrivalWindow before now. Books without a parseable date are never recent.
func (b Book) ReleasedSince(now time.Time) bool {
	released, ok := b.ReleaseTime()
	if !ok {
		return false
	}
	return !released.Before(now.Add(-NewArrivalWindow))
}

// CloneBooks copies every book in books.
func CloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	for i := range books {
		out[i] = books[i].Clone()
	}
	return out
}
