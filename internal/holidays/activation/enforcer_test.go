package activation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/pkg/model"
)

// memRegistry applies flip-sets all-or-nothing, like the store's transaction.
type memRegistry struct {
	records []*model.HolidaySchedule
	findErr error
	flipErr error
	applied []FlipSet
	nextID  int
	saveErr error
}

func (m *memRegistry) FindAll(ctx context.Context) ([]*model.HolidaySchedule, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]*model.HolidaySchedule, 0, len(m.records))
	for _, r := range m.records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRegistry) SetActiveFlags(ctx context.Context, flips FlipSet) error {
	if m.flipErr != nil {
		return m.flipErr
	}
	byID := map[string]*model.HolidaySchedule{}
	for _, r := range m.records {
		byID[r.ID] = r
	}
	for _, f := range flips {
		if _, ok := byID[f.ID]; !ok {
			return holidayerrors.ErrFlipSetIncomplete
		}
	}
	for _, f := range flips {
		byID[f.ID].IsActive = f.Active
	}
	m.applied = append(m.applied, flips)
	return nil
}

func (m *memRegistry) save(ctx context.Context, rec *model.HolidaySchedule) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if rec.ID == "" {
		m.nextID++
		rec.ID = string(rune('m' + m.nextID))
		cp := *rec
		m.records = append(m.records, &cp)
		return nil
	}
	for i, r := range m.records {
		if r.ID == rec.ID {
			cp := *rec
			m.records[i] = &cp
			return nil
		}
	}
	return holidayerrors.ErrNotFound
}

func (m *memRegistry) activeIDs() []string {
	var ids []string
	for _, r := range m.records {
		if r.IsActive {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func registryOf(active ...bool) *memRegistry {
	m := &memRegistry{}
	for i, a := range active {
		m.records = append(m.records, &model.HolidaySchedule{ID: string(rune('a' + i)), IsActive: a})
	}
	return m
}

func TestActivate_FullFlipSet(t *testing.T) {
	reg := registryOf(true, false, true)

	flips, err := Activate(reg.records, "b")
	require.NoError(t, err)
	assert.Equal(t, FlipSet{{ID: "a", Active: false}, {ID: "b", Active: true}, {ID: "c", Active: false}}, flips)
	assert.Equal(t, []string{"b"}, flips.ActiveIDs())
}

func TestActivate_UnknownTarget(t *testing.T) {
	reg := registryOf(false, false)

	_, err := Activate(reg.records, "zzz")
	assert.ErrorIs(t, err, holidayerrors.ErrTargetNotInSnapshot)
}

func TestActivateTwice_OnlySecondTargetRemainsActive(t *testing.T) {
	priorStates := [][]bool{
		{false, false, false},
		{true, false, false},
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}
	for _, prior := range priorStates {
		reg := registryOf(prior...)
		ctx := context.Background()

		_, err := ApplyActivate(ctx, reg, "a")
		require.NoError(t, err)
		_, err = ApplyActivate(ctx, reg, "b")
		require.NoError(t, err)

		assert.Equal(t, []string{"b"}, reg.activeIDs(), "prior %v", prior)
	}
}

func TestApplyDeactivateAll(t *testing.T) {
	reg := registryOf(true, false, true)

	flips, err := ApplyDeactivateAll(context.Background(), reg)
	require.NoError(t, err)
	assert.Len(t, flips, 3)
	assert.Empty(t, reg.activeIDs())
}

func TestApplyDeactivateAll_EmptyRegistryWritesNothing(t *testing.T) {
	reg := &memRegistry{}

	flips, err := ApplyDeactivateAll(context.Background(), reg)
	require.NoError(t, err)
	assert.Empty(t, flips)
	assert.Empty(t, reg.applied)
}

func TestApplyActivate_FlipFailureLeavesStateUntouched(t *testing.T) {
	reg := registryOf(true, false)
	reg.flipErr = errors.New("write conflict")

	_, err := ApplyActivate(context.Background(), reg, "b")
	require.Error(t, err)
	assert.Equal(t, []string{"a"}, reg.activeIDs())
}

func TestApplyActivate_SnapshotFailure(t *testing.T) {
	reg := registryOf(false)
	reg.findErr = errors.New("connection reset")

	_, err := ApplyActivate(context.Background(), reg, "a")
	require.Error(t, err)
	assert.Empty(t, reg.applied)
}

func TestOnSave_ActiveRecordDeactivatesSiblings(t *testing.T) {
	reg := registryOf(true, false)
	rec := &model.HolidaySchedule{Name: "Easter", Type: model.HolidayEaster, IsActive: true}

	flips, err := OnSave(context.Background(), reg, rec, reg.save)
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.Equal(t, []string{rec.ID}, flips.ActiveIDs())
	assert.Equal(t, []string{rec.ID}, reg.activeIDs())
}

func TestOnSave_InactiveRecordSkipsFlipSet(t *testing.T) {
	reg := registryOf(true)
	rec := &model.HolidaySchedule{Name: "Draft"}

	flips, err := OnSave(context.Background(), reg, rec, reg.save)
	require.NoError(t, err)
	assert.Nil(t, flips)
	assert.Equal(t, []string{"a"}, reg.activeIDs())
}

func TestOnSave_FlipFailureNeverLeavesTwoActive(t *testing.T) {
	reg := registryOf(true, false)
	reg.flipErr = errors.New("write conflict")
	rec := &model.HolidaySchedule{ID: "b", Name: "New Year", IsActive: true}

	_, err := OnSave(context.Background(), reg, rec, reg.save)
	require.Error(t, err)
	assert.False(t, rec.IsActive)
	assert.Equal(t, []string{"a"}, reg.activeIDs())
}

func TestOnSave_SaveFailureSkipsFlipSet(t *testing.T) {
	reg := registryOf(false)
	reg.saveErr = errors.New("duplicate key")
	rec := &model.HolidaySchedule{Name: "x", IsActive: true}

	_, err := OnSave(context.Background(), reg, rec, reg.save)
	require.Error(t, err)
	assert.True(t, rec.IsActive)
	assert.Empty(t, reg.applied)
}
