package http

import (
	"net/http"
	"strconv"
	"time"

	"salonhours/pkg/config"
	apperrors "salonhours/pkg/errors"
	"salonhours/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads the optional ?date=YYYY-MM-DD override. The returned
// time is midnight of that date in loc; ok is false when the parameter is absent.
func ExtractDate(r *http.Request, loc *time.Location) (time.Time, bool, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false, apperrors.InvalidInput("invalid date parameter, expected YYYY-MM-DD: " + s)
	}
	return t, true, nil
}
