// Package activation keeps at most one holiday schedule active. Every change
// of the active flag goes through a flip-set: the full list of flag values
// for every record in a fresh registry snapshot, written as one atomic batch.
package activation

import (
	"context"
	"fmt"

	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/pkg/model"
)

type Flip struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type FlipSet []Flip

// ActiveIDs lists the ids the flip-set turns on.
func (f FlipSet) ActiveIDs() []string {
	var ids []string
	for _, flip := range f {
		if flip.Active {
			ids = append(ids, flip.ID)
		}
	}
	return ids
}

// Registry is the part of the schedule store the enforcer needs. Both calls
// must run inside the caller's transaction.
type Registry interface {
	FindAll(ctx context.Context) ([]*model.HolidaySchedule, error)
	SetActiveFlags(ctx context.Context, flips FlipSet) error
}

// Activate computes the flip-set that leaves exactly targetID active.
func Activate(registry []*model.HolidaySchedule, targetID string) (FlipSet, error) {
	found := false
	flips := make(FlipSet, 0, len(registry))
	for _, rec := range registry {
		if rec == nil {
			continue
		}
		active := rec.ID == targetID
		if active {
			found = true
		}
		flips = append(flips, Flip{ID: rec.ID, Active: active})
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", holidayerrors.ErrTargetNotInSnapshot, targetID)
	}
	return flips, nil
}

// DeactivateAll computes the flip-set that turns every record off.
func DeactivateAll(registry []*model.HolidaySchedule) FlipSet {
	flips := make(FlipSet, 0, len(registry))
	for _, rec := range registry {
		if rec == nil {
			continue
		}
		flips = append(flips, Flip{ID: rec.ID, Active: false})
	}
	return flips
}

// ApplyActivate reads the registry, computes the flip-set for targetID and
// writes it.
func ApplyActivate(ctx context.Context, reg Registry, targetID string) (FlipSet, error) {
	snapshot, err := reg.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry snapshot: %w", err)
	}
	flips, err := Activate(snapshot, targetID)
	if err != nil {
		return nil, err
	}
	if err := reg.SetActiveFlags(ctx, flips); err != nil {
		return nil, fmt.Errorf("failed to apply flip-set: %w", err)
	}
	return flips, nil
}

func ApplyDeactivateAll(ctx context.Context, reg Registry) (FlipSet, error) {
	snapshot, err := reg.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry snapshot: %w", err)
	}
	flips := DeactivateAll(snapshot)
	if len(flips) == 0 {
		return flips, nil
	}
	if err := reg.SetActiveFlags(ctx, flips); err != nil {
		return nil, fmt.Errorf("failed to apply flip-set: %w", err)
	}
	return flips, nil
}

// SaveFunc persists a single record and fills in its id on create.
type SaveFunc func(ctx context.Context, rec *model.HolidaySchedule) error

// OnSave persists rec and, when it is meant to be active, activates it
// through a flip-set. The record is always written inactive first so a
// failed flip-set can never leave it active beside a sibling.
func OnSave(ctx context.Context, reg Registry, rec *model.HolidaySchedule, save SaveFunc) (FlipSet, error) {
	wantActive := rec.IsActive
	rec.IsActive = false

	if err := save(ctx, rec); err != nil {
		rec.IsActive = wantActive
		return nil, err
	}
	if !wantActive {
		return nil, nil
	}

	flips, err := ApplyActivate(ctx, reg, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.IsActive = true
	return flips, nil
}
