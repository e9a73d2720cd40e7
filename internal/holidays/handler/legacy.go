package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"salonhours/internal/holidays/service"
	httputil "salonhours/pkg/http"
	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

type LegacyHandler struct {
	service service.LegacyService
	log     *logger.Logger
}

func NewLegacyHandler(service service.LegacyService, log *logger.Logger) *LegacyHandler {
	return &LegacyHandler{
		service: service,
		log:     log,
	}
}

func (h *LegacyHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ls, err := h.service.Get(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetLegacy", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ls); err != nil {
		h.log.Error("failed to write success response", "handler", "GetLegacy", "operation", "WriteSuccess", "error", err)
	}
}

// Save replaces the whole legacy document.
func (h *LegacyHandler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ls model.LegacySchedule
	if err := json.NewDecoder(r.Body).Decode(&ls); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SaveLegacy", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Save(r.Context(), &ls); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SaveLegacy", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ls); err != nil {
		h.log.Error("failed to write success response", "handler", "SaveLegacy", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LegacyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/legacy-schedule", h.Get)
	router.PUT("/api/v1/legacy-schedule", h.Save)
}
