package handler

import (
	"io"

	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/internal/jsonlog"
	"github.com/emzola/bookrank/service"
)

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// Handler defines Handler layer.
type Handler struct {
	config   config.Config
	logger   *jsonlog.Logger
	service  service.Service
	renderer Renderer
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, service service.Service, renderer Renderer) *Handler {
	return &Handler{
		config:   cfg,
		logger:   logger,
		service:  service,
		renderer: renderer,
	}
}
