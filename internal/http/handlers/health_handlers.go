package handlers

import "net/http"

// HealthHandler godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResult
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, HealthResult{Success: true, Data: HealthStatus{Store: h.storeName}})
}
