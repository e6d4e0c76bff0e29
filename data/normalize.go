package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	fullDateRX  = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	yearMonthRX = regexp.MustCompile(`(\d{4})年(\d{1,2})月`)
	yearRX      = regexp.MustCompile(`(\d{4})`)
)

// NormalizeItem maps a raw search item onto a Book. It performs no I/O.
// Rank and IsNew are left unset; they depend on the view the item is shown in.
func NormalizeItem(item Item) Book {
	author := item.Author
	if author == "" {
		author = UnknownAuthor
	}
	purchaseURL := item.AffiliateURL
	if purchaseURL == "" {
		purchaseURL = item.ItemURL
	}
	return Book{
		ID:          BookID(item),
		Title:       item.Title,
		Author:      author,
		ImageURL:    CoverImage(item.LargeImageURL, item.MediumImageURL, item.SmallImageURL),
		ImageAlt:    ImageAlt(item.Title),
		Rating:      NormalizeRating(float64(item.ReviewAverage)),
		ReleaseDate: ParseSalesDate(item.SalesDate),
		ReviewCount: item.ReviewCount,
		Publisher:   item.PublisherName,
		Description: item.ItemCaption,
		Genre:       append([]string(nil), DefaultGenres...),
		PurchaseURL: purchaseURL,
	}
}

// NormalizeItems maps every item of a response, preserving order.
func NormalizeItems(items []ItemWrapper) []Book {
	books := make([]Book, 0, len(items))
	for _, w := range items {
		books = append(books, NormalizeItem(w.Item))
	}
	return books
}

// NormalizeRating rounds a vendor average to the nearest whole star.
// A result outside [MinRating, MaxRating] is replaced by DefaultRating, not clamped.
func NormalizeRating(average float64) Rating {
	if average == 0 || math.IsNaN(average) || math.IsInf(average, 0) {
		return DefaultRating
	}
	rounded := math.Floor(average + 0.5)
	if rounded < float64(MinRating) || rounded > float64(MaxRating) {
		return DefaultRating
	}
	return Rating(rounded)
}

// ParseSalesDate turns vendor sales-date text into YYYY-MM-DD. Patterns are tried
// from most to least specific: full date, year and month, then any 4-digit year.
// It returns "" when nothing matches.
func ParseSalesDate(text string) string {
	if text == "" {
		return ""
	}
	if m := fullDateRX.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
	}
	if m := yearMonthRX.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("%s-%s-01", m[1], pad2(m[2]))
	}
	if m := yearRX.FindStringSubmatch(text); m != nil {
		return m[1] + "-01-01"
	}
	return ""
}

func pad2(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return fmt.Sprintf("%02d", n)
}

// CoverImage returns the first non-empty candidate, or PlaceholderImageURL.
func CoverImage(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return PlaceholderImageURL
}

// ImageAlt returns the alternative text for a book cover.
func ImageAlt(title string) string {
	return title + "の表紙"
}

// BookID picks the ISBN, then the vendor item code. Items with neither get an id
// hashed from title and author so the same item always maps to the same id.
func BookID(item Item) string {
	if item.ISBN != "" {
		return item.ISBN
	}
	if item.ItemCode != "" {
		return string(item.ItemCode)
	}
	return HashID(item.Title, item.Author)
}

// HashID derives a stable identifier from title and author.
func HashID(title, author string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + author))
	return "h" + hex.EncodeToString(sum[:])[:16]
}
