package resolver

import "salonhours/pkg/model"

var themes = map[model.HolidayType]model.Theme{
	model.HolidayChristmas: {
		Type:         model.HolidayChristmas,
		PrimaryColor: "#B91C1C",
		AccentColor:  "#15803D",
		Icon:         "christmas-tree",
	},
	model.HolidayNewYear: {
		Type:         model.HolidayNewYear,
		PrimaryColor: "#1E3A8A",
		AccentColor:  "#D4AF37",
		Icon:         "fireworks",
	},
	model.HolidayEaster: {
		Type:         model.HolidayEaster,
		PrimaryColor: "#DB2777",
		AccentColor:  "#FACC15",
		Icon:         "easter-egg",
	},
	model.HolidayOther: {
		Type:         model.HolidayOther,
		PrimaryColor: "#374151",
		AccentColor:  "#9CA3AF",
		Icon:         "calendar",
	},
}

// ThemeFor looks up the palette of a holiday type. Unknown types share the
// neutral palette of "other" but keep their own type name.
func ThemeFor(t model.HolidayType) model.Theme {
	if theme, ok := themes[t]; ok {
		return theme
	}
	theme := themes[model.HolidayOther]
	if t != "" {
		theme.Type = t
	}
	return theme
}
