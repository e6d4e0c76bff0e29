package data

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SearchResponse is the body returned by the Rakuten Books search API.
type SearchResponse struct {
	Items     []ItemWrapper `json:"Items"`
	Count     int           `json:"count"`
	Page      int           `json:"page"`
	First     int           `json:"first"`
	Last      int           `json:"last"`
	Hits      int           `json:"hits"`
	PageCount int           `json:"pageCount"`
}

// ItemWrapper wraps each result item the way the API does.
type ItemWrapper struct {
	Item Item `json:"Item"`
}

// Item is a single raw book record from the search API.
type Item struct {
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	ItemURL        string     `json:"itemUrl"`
	AffiliateURL   string     `json:"affiliateUrl"`
	LargeImageURL  string     `json:"largeImageUrl"`
	MediumImageURL string     `json:"mediumImageUrl"`
	SmallImageURL  string     `json:"smallImageUrl"`
	ISBN           string     `json:"isbn"`
	ItemCode       FlexString `json:"itemCode"`
	SalesDate      string     `json:"salesDate"`
	PublisherName  string     `json:"publisherName"`
	ReviewCount    int        `json:"reviewCount"`
	ReviewAverage  FlexFloat  `json:"reviewAverage"`
	ItemCaption    string     `json:"itemCaption"`
	BooksGenreID   string     `json:"booksGenreId"`
}

// FlexString accepts a JSON string or number and keeps its text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexFloat accepts a JSON number or a numeric string such as "4.25".
// Text that does not parse is read as zero.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}
