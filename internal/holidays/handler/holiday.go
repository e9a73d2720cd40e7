package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"salonhours/internal/holidays/activation"
	"salonhours/internal/holidays/service"
	httputil "salonhours/pkg/http"
	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

type HolidayHandler struct {
	service service.HolidayService
	log     *logger.Logger
}

func NewHolidayHandler(service service.HolidayService, log *logger.Logger) *HolidayHandler {
	return &HolidayHandler{
		service: service,
		log:     log,
	}
}

// ActivationResponse lists every record whose flag the operation wrote.
type ActivationResponse struct {
	ActiveID string             `json:"active_id,omitempty"`
	Flips    activation.FlipSet `json:"flips"`
}

func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hs := model.NewHolidaySchedule()
	if err := json.NewDecoder(r.Body).Decode(hs); err != nil {
		h.badRequest(w, "Create", "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), hs); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, hs); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *HolidayHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "GetByID", "ID parameter is required")
		return
	}

	hs, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, hs); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	schedules, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, schedules, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *HolidayHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Update", "ID parameter is required")
		return
	}

	var updates model.HolidayScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.badRequest(w, "Update", "Invalid request body")
		return
	}

	hs, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, hs); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Delete", "ID parameter is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *HolidayHandler) Activate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.badRequest(w, "Activate", "ID parameter is required")
		return
	}

	flips, err := h.service.Activate(r.Context(), id)
	if err != nil {
		h.writeError(w, "Activate", err)
		return
	}

	if err := httputil.WriteSuccess(w, ActivationResponse{ActiveID: id, Flips: flips}); err != nil {
		h.log.Error("failed to write success response", "handler", "Activate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) DeactivateAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	flips, err := h.service.DeactivateAll(r.Context())
	if err != nil {
		h.writeError(w, "DeactivateAll", err)
		return
	}

	if flips == nil {
		flips = activation.FlipSet{}
	}
	if err := httputil.WriteSuccess(w, ActivationResponse{Flips: flips}); err != nil {
		h.log.Error("failed to write success response", "handler", "DeactivateAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HolidayHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/holidays", h.Create)
	router.GET("/api/v1/holidays", h.GetAll)
	router.POST("/api/v1/holidays/deactivate", h.DeactivateAll)
	router.GET("/api/v1/holidays/id/:id", h.GetByID)
	router.PATCH("/api/v1/holidays/id/:id", h.Update)
	router.DELETE("/api/v1/holidays/id/:id", h.Delete)
	router.POST("/api/v1/holidays/id/:id/activate", h.Activate)
}

func (h *HolidayHandler) badRequest(w http.ResponseWriter, handler, message string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: message}); err != nil {
		h.log.Error("failed to write bad request response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *HolidayHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
