// Package resolver decides which opening hours and theme the site shows for
// a weekday. Everything here is a pure function of the snapshot it is given;
// storage and caching live elsewhere.
package resolver

import (
	"strings"
	"time"

	"salonhours/pkg/model"
)

// ClosedHours is the effective hours value of a day the holiday source marks closed.
const ClosedHours = "closed"

const dateLabelLayout = "Jan 2"

// Source is the schedule that is authoritative for hours and theme.
type Source struct {
	Kind    model.HolidaySource
	Type    model.HolidayType
	Hours   map[model.Weekday]string
	Closed  map[model.Weekday]bool
	Dates   map[model.Weekday]string
	Notices []model.ClosureNotice
}

// ActiveSource applies the precedence rules: an active registry entry wins,
// then the legacy window, otherwise there is no holiday source.
func ActiveSource(snap model.Snapshot, today time.Time) (*Source, bool) {
	if rec := FirstActive(snap.Registry); rec != nil {
		return &Source{
			Kind:    model.SourceRegistry,
			Type:    rec.Type,
			Hours:   rec.Hours,
			Closed:  rec.Closed,
			Dates:   rec.Dates,
			Notices: rec.ClosureNotices,
		}, true
	}

	if LegacyActive(snap.Legacy, today) {
		return &Source{
			Kind:   model.SourceLegacy,
			Type:   model.HolidayChristmas,
			Hours:  snap.Legacy.Hours,
			Closed: snap.Legacy.Closed,
			Dates:  snap.Legacy.Dates,
		}, true
	}

	return nil, false
}

// FirstActive returns the active registry entry. When a racing read shows
// more than one, the oldest by creation time (then id) is chosen so every
// reader agrees on the same record.
func FirstActive(registry []*model.HolidaySchedule) *model.HolidaySchedule {
	var first *model.HolidaySchedule
	for _, rec := range registry {
		if rec == nil || !rec.IsActive {
			continue
		}
		if first == nil || before(rec, first) {
			first = rec
		}
	}
	return first
}

// CountActive reports how many registry entries claim to be active.
func CountActive(registry []*model.HolidaySchedule) int {
	n := 0
	for _, rec := range registry {
		if rec != nil && rec.IsActive {
			n++
		}
	}
	return n
}

func before(a, b *model.HolidaySchedule) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// LegacyActive derives the legacy window from its dates. A missing or
// unparsable bound, or an inverted window, is never active.
func LegacyActive(legacy *model.LegacySchedule, today time.Time) bool {
	if legacy == nil || !legacy.Enabled {
		return false
	}
	start, ok := parseDate(legacy.StartDate)
	if !ok {
		return false
	}
	end, ok := parseDate(legacy.EndDate)
	if !ok {
		return false
	}
	if end.Before(start) {
		return false
	}
	day := calendarDay(today)
	return !day.Before(start) && !day.After(end)
}

// Resolve produces the hours shown for one weekday.
func Resolve(snap model.Snapshot, base model.WeeklyHours, today time.Time, day model.Weekday) model.ResolvedHours {
	src, ok := ActiveSource(snap, today)
	return ResolveFromSource(src, ok, base, day)
}

// ResolveWeek resolves all seven weekdays against a single source lookup.
func ResolveWeek(snap model.Snapshot, base model.WeeklyHours, today time.Time) []model.ResolvedHours {
	src, ok := ActiveSource(snap, today)
	days := make([]model.ResolvedHours, 0, len(model.Weekdays))
	for _, d := range model.Weekdays {
		days = append(days, ResolveFromSource(src, ok, base, d))
	}
	return days
}

func ResolveFromSource(src *Source, ok bool, base model.WeeklyHours, day model.Weekday) model.ResolvedHours {
	out := model.ResolvedHours{
		Weekday:        day,
		EffectiveHours: base[day],
	}
	if !ok || src == nil {
		return out
	}

	out.IsHolidayActive = true
	out.Source = src.Kind
	theme := ThemeFor(src.Type)
	out.Theme = &theme

	if src.Closed[day] {
		out.EffectiveHours = ClosedHours
	} else if h := strings.TrimSpace(src.Hours[day]); h != "" {
		out.EffectiveHours = src.Hours[day]
	}

	if d, ok := parseDate(src.Dates[day]); ok {
		out.DateLabel = d.Format(dateLabelLayout)
	}
	return out
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// calendarDay drops the clock and zone of t, keeping the date as seen in t's location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
