package handler

import "net/http"

// healthcheckHandler reports whether the service is up.
// @Summary Show service status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /v1/healthcheck [get]
func (h *Handler) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	health := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": h.config.Server.Env,
			"version":     version,
		},
	}
	err := h.encodeJSON(w, http.StatusOK, health, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
