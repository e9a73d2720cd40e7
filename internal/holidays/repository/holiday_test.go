package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salonhours/internal/holidays/activation"
	holidayerrors "salonhours/internal/holidays/errors"
)

func TestFlipSetModels(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

	models, err := flipSetModels(activation.FlipSet{
		{ID: a.Hex(), Active: false},
		{ID: b.Hex(), Active: true},
	}, now)
	require.NoError(t, err)
	require.Len(t, models, 2)

	second, ok := models[1].(*mongo.UpdateOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": b}, second.Filter)
	assert.Equal(t, bson.M{"$set": bson.M{"is_active": true, "updated_at": now}}, second.Update)
}

func TestFlipSetModels_DeactivationsFirst(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	models, err := flipSetModels(activation.FlipSet{
		{ID: a.Hex(), Active: true},
		{ID: b.Hex(), Active: false},
		{ID: c.Hex(), Active: false},
	}, time.Now())
	require.NoError(t, err)
	require.Len(t, models, 3)

	last := models[2].(*mongo.UpdateOneModel)
	assert.Equal(t, bson.M{"_id": a}, last.Filter)
	first := models[0].(*mongo.UpdateOneModel)
	assert.Equal(t, bson.M{"_id": b}, first.Filter)
}

func TestFlipSetModels_InvalidID(t *testing.T) {
	_, err := flipSetModels(activation.FlipSet{{ID: "not-hex", Active: true}}, time.Now())
	assert.ErrorIs(t, err, holidayerrors.ErrInvalidID)
}
