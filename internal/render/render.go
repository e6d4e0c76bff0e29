// Package render turns page data into HTML using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/emzola/bookrank/data"
	"github.com/juju/clock"
)

//go:embed "templates"
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageBook     = "book"
	PageNotFound = "notfound"
)

// DefaultSynopsis is shown when a book has no description.
const DefaultSynopsis = "この小説のあらすじはまだ登録されていません。"

// releaseMagnitudes phrase a release date relative to today, e.g. "3日前" or "2か月後".
var releaseMagnitudes = []humanize.RelTimeMagnitude{
	{D: humanize.Day, Format: "今日", DivBy: 1},
	{D: 2 * humanize.Day, Format: "1日%s", DivBy: 1},
	{D: humanize.Month, Format: "%d日%s", DivBy: humanize.Day},
	{D: 2 * humanize.Month, Format: "1か月%s", DivBy: 1},
	{D: humanize.Year, Format: "%dか月%s", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "約1年%s", DivBy: 1},
	{D: math.MaxInt64, Format: "約%d年%s", DivBy: humanize.Year},
}

// HomePage is the data for the top page.
type HomePage struct {
	NewBooks    []data.Book
	RankedBooks []data.Book
}

// BookPage is the data for a book detail page.
type BookPage struct {
	Book data.Book
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
	clock clock.Clock
}

// New parses every page template. clk supplies "now" for relative dates.
func New(clk clock.Clock) (*Renderer, error) {
	if clk == nil {
		clk = clock.WallClock
	}
	r := &Renderer{
		pages: make(map[string]*template.Template),
		clock: clk,
	}
	for _, page := range []string{PageHome, PageBook, PageNotFound} {
		tmpl, err := template.New(page).Funcs(r.funcs()).ParseFS(templateFS,
			"templates/base.tmpl",
			"templates/partials.tmpl",
			"templates/"+page+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page with pageData and writes the result to w. Nothing is
// written if execution fails.
func (r *Renderer) Render(w io.Writer, page string, pageData any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	buf := new(bytes.Buffer)
	err := tmpl.ExecuteTemplate(buf, "base", pageData)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"stars":       Stars,
		"rankClass":   RankClass,
		"releaseAgo":  r.ReleaseAgo,
		"synopsis":    Synopsis,
		"commaNumber": func(n int) string { return humanize.Comma(int64(n)) },
	}
}

// Stars draws a rating as five filled or hollow stars.
func Stars(rating data.Rating) string {
	n := int(rating)
	if n < 0 {
		n = 0
	}
	if n > int(data.MaxRating) {
		n = int(data.MaxRating)
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", int(data.MaxRating)-n)
}

// RankClass picks the badge style for a rank: medals for the top three.
func RankClass(rank int) string {
	switch rank {
	case 1:
		return "rank-gold"
	case 2:
		return "rank-silver"
	case 3:
		return "rank-bronze"
	default:
		return "rank-default"
	}
}

// ReleaseAgo describes a release date relative to now in Japanese.
// It returns "" when the date is missing or cannot be parsed.
func (r *Renderer) ReleaseAgo(b data.Book) string {
	released, ok := b.ReleaseTime()
	if !ok {
		return ""
	}
	return humanize.CustomRelTime(released, r.clock.Now(), "前", "後", releaseMagnitudes)
}

// Synopsis returns the description or DefaultSynopsis.
func Synopsis(description string) string {
	if strings.TrimSpace(description) == "" {
		return DefaultSynopsis
	}
	return description
}
