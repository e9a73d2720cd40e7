package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonhours/pkg/model"
)

var baseHours = model.WeeklyHours{
	model.Monday:    "10:00-18:00",
	model.Tuesday:   "10:00-18:00",
	model.Wednesday: "10:00-18:00",
	model.Thursday:  "10:00-20:00",
	model.Friday:    "10:00-20:00",
	model.Saturday:  "09:00-15:00",
	model.Sunday:    "",
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestResolve_ActiveRegistryRecordAppliesToEveryWeekday(t *testing.T) {
	for _, typ := range []model.HolidayType{model.HolidayChristmas, model.HolidayNewYear, model.HolidayEaster, model.HolidayOther} {
		snap := model.Snapshot{Registry: []*model.HolidaySchedule{
			{ID: "a", Name: "off", Type: model.HolidayChristmas},
			{ID: "b", Name: "on", Type: typ, IsActive: true},
		}}
		for _, d := range model.Weekdays {
			got := Resolve(snap, baseHours, day(t, "2024-06-01"), d)
			assert.True(t, got.IsHolidayActive, "type %s day %s", typ, d)
			require.NotNil(t, got.Theme)
			assert.Equal(t, typ, got.Theme.Type)
			assert.Equal(t, model.SourceRegistry, got.Source)
		}
	}
}

func TestResolve_NoHolidaySourceUsesBaseHours(t *testing.T) {
	snap := model.Snapshot{
		Registry: []*model.HolidaySchedule{{ID: "a", Name: "x", Type: model.HolidayEaster}},
		Legacy:   &model.LegacySchedule{Enabled: false, StartDate: "2024-01-01", EndDate: "2024-12-31"},
	}
	for _, d := range model.Weekdays {
		got := Resolve(snap, baseHours, day(t, "2024-06-01"), d)
		assert.False(t, got.IsHolidayActive)
		assert.Nil(t, got.Theme)
		assert.Equal(t, baseHours[d], got.EffectiveHours)
		assert.Empty(t, got.DateLabel)
	}
}

func TestResolve_ClosedOverridesHoursString(t *testing.T) {
	snap := model.Snapshot{Registry: []*model.HolidaySchedule{{
		ID:       "a",
		Type:     model.HolidayChristmas,
		IsActive: true,
		Hours:    map[model.Weekday]string{model.Wednesday: "12:00-14:00"},
		Closed:   map[model.Weekday]bool{model.Wednesday: true},
	}}}

	got := Resolve(snap, baseHours, day(t, "2024-12-25"), model.Wednesday)
	assert.Equal(t, ClosedHours, got.EffectiveHours)
	assert.True(t, got.IsHolidayActive)
}

func TestResolve_EmptyHolidayHoursFallBackToBase(t *testing.T) {
	snap := model.Snapshot{Registry: []*model.HolidaySchedule{{
		ID:       "a",
		Type:     model.HolidayChristmas,
		IsActive: true,
		Hours:    map[model.Weekday]string{model.Monday: ""},
		Closed:   map[model.Weekday]bool{model.Monday: false},
	}}}

	got := Resolve(snap, baseHours, day(t, "2024-12-23"), model.Monday)
	assert.Equal(t, model.ResolvedHours{
		Weekday:         model.Monday,
		EffectiveHours:  "10:00-18:00",
		IsHolidayActive: true,
		Theme:           &model.Theme{Type: model.HolidayChristmas, PrimaryColor: "#B91C1C", AccentColor: "#15803D", Icon: "christmas-tree"},
		Source:          model.SourceRegistry,
	}, got)
}

func TestResolve_HolidayHoursUsedVerbatim(t *testing.T) {
	snap := model.Snapshot{Registry: []*model.HolidaySchedule{{
		ID:       "a",
		Type:     model.HolidayNewYear,
		IsActive: true,
		Hours:    map[model.Weekday]string{model.Tuesday: "11:00-15:00 (short day)"},
	}}}

	got := Resolve(snap, baseHours, day(t, "2024-12-31"), model.Tuesday)
	assert.Equal(t, "11:00-15:00 (short day)", got.EffectiveHours)
}

func TestResolve_MissingWeekdayKeyFallsBackToBase(t *testing.T) {
	snap := model.Snapshot{Registry: []*model.HolidaySchedule{{
		ID:       "a",
		Type:     model.HolidayEaster,
		IsActive: true,
		Hours:    map[model.Weekday]string{model.Friday: "closed early 14:00"},
	}}}

	got := Resolve(snap, baseHours, day(t, "2024-03-29"), model.Saturday)
	assert.Equal(t, baseHours[model.Saturday], got.EffectiveHours)
	assert.True(t, got.IsHolidayActive)
}

func TestResolve_LegacyWindowContainsToday(t *testing.T) {
	snap := model.Snapshot{Legacy: &model.LegacySchedule{
		Enabled:   true,
		StartDate: "2024-12-20",
		EndDate:   "2025-01-06",
		Closed:    map[model.Weekday]bool{model.Wednesday: true},
		Dates:     map[model.Weekday]string{model.Wednesday: "2024-12-25"},
	}}

	got := Resolve(snap, baseHours, day(t, "2024-12-25"), model.Wednesday)
	assert.True(t, got.IsHolidayActive)
	assert.Equal(t, model.SourceLegacy, got.Source)
	assert.Equal(t, ClosedHours, got.EffectiveHours)
	assert.Equal(t, "Dec 25", got.DateLabel)
	require.NotNil(t, got.Theme)
	assert.Equal(t, model.HolidayChristmas, got.Theme.Type)
}

func TestResolve_RegistryTakesPrecedenceOverLegacy(t *testing.T) {
	snap := model.Snapshot{
		Registry: []*model.HolidaySchedule{{ID: "a", Type: model.HolidayEaster, IsActive: true}},
		Legacy:   &model.LegacySchedule{Enabled: true, StartDate: "2024-01-01", EndDate: "2024-12-31"},
	}

	got := Resolve(snap, baseHours, day(t, "2024-04-01"), model.Monday)
	assert.Equal(t, model.SourceRegistry, got.Source)
	assert.Equal(t, model.HolidayEaster, got.Theme.Type)
}

func TestLegacyActive(t *testing.T) {
	today := day(t, "2024-12-25")
	tests := []struct {
		name   string
		legacy *model.LegacySchedule
		want   bool
	}{
		{name: "nil", legacy: nil, want: false},
		{name: "disabled", legacy: &model.LegacySchedule{StartDate: "2024-12-20", EndDate: "2025-01-06"}, want: false},
		{name: "inside window", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-20", EndDate: "2025-01-06"}, want: true},
		{name: "first day inclusive", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-25", EndDate: "2025-01-06"}, want: true},
		{name: "last day inclusive", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-01", EndDate: "2024-12-25"}, want: true},
		{name: "before window", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-26", EndDate: "2025-01-06"}, want: false},
		{name: "after window", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-01", EndDate: "2024-12-24"}, want: false},
		{name: "missing start is not all time", legacy: &model.LegacySchedule{Enabled: true, EndDate: "2025-01-06"}, want: false},
		{name: "missing end is not all time", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-12-20"}, want: false},
		{name: "missing both", legacy: &model.LegacySchedule{Enabled: true}, want: false},
		{name: "inverted window", legacy: &model.LegacySchedule{Enabled: true, StartDate: "2025-01-06", EndDate: "2024-12-20"}, want: false},
		{name: "garbage date", legacy: &model.LegacySchedule{Enabled: true, StartDate: "20/12/2024", EndDate: "2025-01-06"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyActive(tt.legacy, today))
		})
	}
}

func TestLegacyActive_UsesCalendarDateOfToday(t *testing.T) {
	legacy := &model.LegacySchedule{Enabled: true, StartDate: "2024-12-20", EndDate: "2025-01-06"}
	loc := time.FixedZone("UTC+2", 2*60*60)

	lateOnLastDay := time.Date(2025, time.January, 6, 23, 59, 0, 0, loc)
	assert.True(t, LegacyActive(legacy, lateOnLastDay))

	dayAfter := time.Date(2025, time.January, 7, 0, 1, 0, 0, loc)
	assert.False(t, LegacyActive(legacy, dayAfter))
}

func TestFirstActive_InconsistentSnapshotIsDeterministic(t *testing.T) {
	older := &model.HolidaySchedule{ID: "b", Type: model.HolidayChristmas, IsActive: true, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &model.HolidaySchedule{ID: "a", Type: model.HolidayEaster, IsActive: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	assert.Same(t, older, FirstActive([]*model.HolidaySchedule{newer, older}))
	assert.Same(t, older, FirstActive([]*model.HolidaySchedule{older, newer}))
	assert.Equal(t, 2, CountActive([]*model.HolidaySchedule{older, nil, newer}))

	sameTime := &model.HolidaySchedule{ID: "0", IsActive: true, CreatedAt: older.CreatedAt}
	assert.Same(t, sameTime, FirstActive([]*model.HolidaySchedule{older, sameTime}))
}

func TestResolve_EmptyInputsDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Resolve(model.Snapshot{}, nil, time.Time{}, model.Monday)
		assert.False(t, got.IsHolidayActive)
		assert.Equal(t, "", got.EffectiveHours)
	})
	assert.NotPanics(t, func() {
		snap := model.Snapshot{Registry: []*model.HolidaySchedule{nil, {ID: "x", IsActive: true}}}
		got := Resolve(snap, baseHours, time.Now(), model.Sunday)
		assert.True(t, got.IsHolidayActive)
		assert.Equal(t, model.HolidayOther, got.Theme.Type)
	})
}

func TestResolveWeek_OrderAndDateLabels(t *testing.T) {
	snap := model.Snapshot{Registry: []*model.HolidaySchedule{{
		ID:       "a",
		Type:     model.HolidayChristmas,
		IsActive: true,
		Dates: map[model.Weekday]string{
			model.Monday:  "2024-12-23",
			model.Tuesday: "not-a-date",
		},
	}}}

	week := ResolveWeek(snap, baseHours, day(t, "2024-12-23"))
	require.Len(t, week, 7)
	for i, d := range model.Weekdays {
		assert.Equal(t, d, week[i].Weekday)
	}
	assert.Equal(t, "Dec 23", week[0].DateLabel)
	assert.Empty(t, week[1].DateLabel)
}

func TestThemeFor_UnknownTypeUsesNeutralPalette(t *testing.T) {
	other := ThemeFor(model.HolidayOther)
	got := ThemeFor("midsummer")
	assert.Equal(t, model.HolidayType("midsummer"), got.Type)
	assert.Equal(t, other.PrimaryColor, got.PrimaryColor)
	assert.Equal(t, other.AccentColor, got.AccentColor)
	assert.Equal(t, other.Icon, got.Icon)
}
