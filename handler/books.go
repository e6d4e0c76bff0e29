package handler

import (
	"net/http"

	"github.com/emzola/bookrank/data"
	"github.com/emzola/bookrank/internal/render"
	"github.com/emzola/bookrank/internal/validator"
	"github.com/emzola/bookrank/service"
)

// homePageHandler renders the new-arrivals and ranking sections.
func (h *Handler) homePageHandler(w http.ResponseWriter, r *http.Request) {
	page := render.HomePage{
		NewBooks:    h.service.NewBooks(r.Context()),
		RankedBooks: h.service.TopRankedBooks(r.Context(), service.DefaultRankedLimit),
	}
	h.renderPage(w, r, http.StatusOK, render.PageHome, page, h.cacheHeaders())
}

// bookPageHandler renders a book's detail page.
func (h *Handler) bookPageHandler(w http.ResponseWriter, r *http.Request) {
	book, ok := h.service.BookByID(r.Context(), h.readStringParam(r, "bookId"))
	if !ok {
		h.pageNotFoundResponse(w, r)
		return
	}
	h.renderPage(w, r, http.StatusOK, render.PageBook, render.BookPage{Book: *book}, h.cacheHeaders())
}

// listRankedBooksHandler returns the best sellers.
// @Summary List ranked books
// @Tags books
// @Produce json
// @Param limit query int false "number of books (1-30, default 10)"
// @Success 200 {object} map[string][]data.Book
// @Failure 422 {object} map[string]any
// @Router /v1/rankings [get]
func (h *Handler) listRankedBooksHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	limit := h.readInt(r.URL.Query(), "limit", service.DefaultRankedLimit, v)
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	books := h.service.TopRankedBooks(r.Context(), limit)
	err := h.encodeJSON(w, http.StatusOK, envelope{"books": books}, h.cacheHeaders())
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// listNewBooksHandler returns the latest releases.
// @Summary List new arrivals
// @Tags books
// @Produce json
// @Success 200 {object} map[string][]data.Book
// @Router /v1/new-arrivals [get]
func (h *Handler) listNewBooksHandler(w http.ResponseWriter, r *http.Request) {
	books := h.service.NewBooks(r.Context())
	err := h.encodeJSON(w, http.StatusOK, envelope{"books": books}, h.cacheHeaders())
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showBookHandler returns one book.
// @Summary Show a book
// @Tags books
// @Produce json
// @Param bookId path string true "ISBN, item code or title"
// @Success 200 {object} map[string]data.Book
// @Failure 404 {object} map[string]any
// @Router /v1/books/{bookId} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	book, ok := h.service.BookByID(r.Context(), h.readStringParam(r, "bookId"))
	if !ok {
		h.notFoundResponse(w, r)
		return
	}
	err := h.encodeJSON(w, http.StatusOK, envelope{"book": book}, h.cacheHeaders())
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// listBookPathsHandler returns the ids of the ranked books whose detail pages are prebuilt.
// @Summary List prebuilt book paths
// @Tags books
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /v1/paths [get]
func (h *Handler) listBookPathsHandler(w http.ResponseWriter, r *http.Request) {
	books := h.service.TopRankedBooks(r.Context(), service.DefaultRankedLimit)
	err := h.encodeJSON(w, http.StatusOK, envelope{"ids": bookIDs(books)}, h.cacheHeaders())
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func bookIDs(books []data.Book) []string {
	ids := make([]string, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}
	return ids
}
