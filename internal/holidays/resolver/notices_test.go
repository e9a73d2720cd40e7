package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salonhours/pkg/model"
)

func TestSelectNotices(t *testing.T) {
	notices := []model.ClosureNotice{
		{ID: "1", From: "2024-08-01", To: ""},
		{ID: "2", From: "", To: ""},
		{ID: "3", From: "", To: "2020-01-10"},
		{ID: "4", From: "  ", To: " "},
		{ID: "5", From: "2030-08-01", To: "2030-08-15"},
	}

	got := SelectNotices(notices)
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"1", "3", "5"}, ids)
}

func TestSelectNotices_NilYieldsEmptyList(t *testing.T) {
	got := SelectNotices(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestActiveNotices(t *testing.T) {
	notices := []model.ClosureNotice{{ID: "keep", From: "2024-08-01"}, {ID: "drop"}}

	t.Run("active registry source", func(t *testing.T) {
		snap := model.Snapshot{Registry: []*model.HolidaySchedule{{ID: "a", IsActive: true, ClosureNotices: notices}}}
		got := ActiveNotices(snap, day(t, "2024-06-01"))
		assert.Equal(t, []model.ClosureNotice{{ID: "keep", From: "2024-08-01"}}, got)
	})

	t.Run("inactive registry record contributes nothing", func(t *testing.T) {
		snap := model.Snapshot{Registry: []*model.HolidaySchedule{{ID: "a", ClosureNotices: notices}}}
		assert.Empty(t, ActiveNotices(snap, day(t, "2024-06-01")))
	})

	t.Run("legacy source has no notices", func(t *testing.T) {
		snap := model.Snapshot{Legacy: &model.LegacySchedule{Enabled: true, StartDate: "2024-01-01", EndDate: "2024-12-31"}}
		assert.Empty(t, ActiveNotices(snap, day(t, "2024-06-01")))
	})
}
