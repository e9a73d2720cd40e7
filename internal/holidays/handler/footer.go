package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/internal/holidays/service"
	apperrors "salonhours/pkg/errors"
	httputil "salonhours/pkg/http"
	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

// FooterHandler serves the public footer. A store outage never surfaces as
// an error here: the regular hours are served instead, flagged degraded.
type FooterHandler struct {
	service  service.FooterService
	location *time.Location
	log      *logger.Logger
}

func NewFooterHandler(service service.FooterService, location *time.Location, log *logger.Logger) *FooterHandler {
	return &FooterHandler{
		service:  service,
		location: location,
		log:      log,
	}
}

func (h *FooterHandler) Week(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	today, ok := h.today(w, r, "FooterWeek")
	if !ok {
		return
	}

	footer, err := h.service.ResolveWeek(r.Context(), today)
	if err != nil {
		if !errors.Is(err, holidayerrors.ErrUnableToResolve) {
			h.writeError(w, "FooterWeek", err)
			return
		}
		h.log.Warn("Serving regular hours, holiday snapshot unavailable", "error", err)
		footer = h.service.Fallback(today)
	}

	if err := httputil.WriteSuccess(w, footer); err != nil {
		h.log.Error("failed to write success response", "handler", "FooterWeek", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FooterHandler) Day(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, valid := model.ParseWeekday(ps.ByName("weekday"))
	if !valid {
		h.writeError(w, "FooterDay", apperrors.InvalidInput("invalid weekday: "+ps.ByName("weekday")))
		return
	}

	today, ok := h.today(w, r, "FooterDay")
	if !ok {
		return
	}

	resolved, err := h.service.ResolveDay(r.Context(), today, day)
	if err != nil {
		if !errors.Is(err, holidayerrors.ErrUnableToResolve) {
			h.writeError(w, "FooterDay", err)
			return
		}
		h.log.Warn("Serving regular hours, holiday snapshot unavailable", "weekday", day, "error", err)
		fallback := h.service.Fallback(today)
		for i := range fallback.Days {
			if fallback.Days[i].Weekday == day {
				resolved = &fallback.Days[i]
				break
			}
		}
	}

	if err := httputil.WriteSuccess(w, resolved); err != nil {
		h.log.Error("failed to write success response", "handler", "FooterDay", "operation", "WriteSuccess", "error", err)
	}
}

// today honours ?date= for previewing a future week, otherwise asks the
// service for the current salon-local date.
func (h *FooterHandler) today(w http.ResponseWriter, r *http.Request, handler string) (time.Time, bool) {
	date, ok, err := httputil.ExtractDate(r, h.location)
	if err != nil {
		h.writeError(w, handler, err)
		return time.Time{}, false
	}
	if ok {
		return date, true
	}
	return h.service.Today(), true
}

func (h *FooterHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *FooterHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/footer/hours", h.Week)
	router.GET("/api/v1/footer/hours/:weekday", h.Day)
}
