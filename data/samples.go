package data

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

// sampleFile is the schema of a fallback book document.
type sampleFile struct {
	Books []Book `yaml:"books"`
}

// SampleBooks returns the embedded fallback book set.
func SampleBooks() ([]Book, error) {
	return DecodeBooks(bytes.NewReader(samplesYAML))
}

// LoadBooks reads a fallback book document from path.
func LoadBooks(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeBooks(f)
}

// DecodeBooks decodes a YAML fallback document and fills the derived fields every
// Book must carry, so fallback records look exactly like normalized live ones.
func DecodeBooks(r io.Reader) ([]Book, error) {
	var doc sampleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fallback books: %w", err)
	}
	seen := make(map[string]bool, len(doc.Books))
	for i := range doc.Books {
		b := &doc.Books[i]
		if b.Title == "" {
			return nil, fmt.Errorf("fallback book %d: title must be provided", i)
		}
		if b.ID == "" {
			b.ID = HashID(b.Title, b.Author)
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("fallback book %d: duplicate id %q", i, b.ID)
		}
		seen[b.ID] = true
		if b.Author == "" {
			b.Author = UnknownAuthor
		}
		b.ImageURL = CoverImage(b.ImageURL)
		if b.ImageAlt == "" {
			b.ImageAlt = ImageAlt(b.Title)
		}
		if !b.Rating.Valid() {
			b.Rating = DefaultRating
		}
		if _, ok := b.ReleaseTime(); !ok {
			b.ReleaseDate = ""
		}
		if b.Rank < 0 {
			b.Rank = 0
		}
		if b.ReviewCount < 0 {
			b.ReviewCount = 0
		}
	}
	return doc.Books, nil
}
