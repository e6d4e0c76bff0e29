package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emzola/bookrank/internal/validator"
	"github.com/julienschmidt/httprouter"
)

const version = "1.0.0"

type envelope map[string]interface{}

// readStringParam returns the named url parameter with surrounding space removed.
func (h *Handler) readStringParam(r *http.Request, name string) string {
	params := httprouter.ParamsFromContext(r.Context())
	return strings.TrimSpace(params.ByName(name))
}

// readInt reads an integer from the query string. It returns defaultValue when the key is
// absent and records a validation error when the value is not an integer.
func (h *Handler) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	v.Check(err == nil, key, "must be an integer value")
	if err != nil {
		return defaultValue
	}
	return i
}

// encodeJSON serializes data to JSON and writes the appropriate HTTP status code and headers if necessary.
func (h *Handler) encodeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')
	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// renderPage renders an HTML page into a buffer first so a template error can still
// produce a clean 500 response.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any, headers http.Header) {
	buf := new(bytes.Buffer)
	err := h.renderer.Render(buf, page, data)
	if err != nil {
		h.logError(r, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	for k, v := range headers {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// cacheHeaders tells clients and shared caches how long a result may be reused.
func (h *Handler) cacheHeaders() http.Header {
	headers := make(http.Header)
	maxAge := h.service.RevalidateAfter() / time.Second
	if maxAge <= 0 {
		headers.Set("Cache-Control", "no-cache")
		return headers
	}
	headers.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int64(maxAge)))
	return headers
}
