package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/pkg/config"
	"salonhours/pkg/model"
)

const (
	LegacyCollectionName = "LegacySchedules"
)

type mongoLegacyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// LegacyRepository stores the single date-window schedule.
type LegacyRepository interface {
	Get(ctx context.Context) (*model.LegacySchedule, error)
	Save(ctx context.Context, ls *model.LegacySchedule) error
}

func NewMongoLegacyRepository(cfg *config.Config) LegacyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLegacyRepository{
		cfg:        cfg,
		collection: db.Collection(LegacyCollectionName),
	}
}

func (r *mongoLegacyRepository) Get(ctx context.Context) (*model.LegacySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var ls model.LegacySchedule
	err := r.collection.FindOne(ctx, bson.M{"_id": model.LegacyScheduleID}).Decode(&ls)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, holidayerrors.ErrLegacyNotFound
		}
		return nil, fmt.Errorf("failed to find legacy schedule: %w", err)
	}
	return &ls, nil
}

// Save replaces the whole document, creating it on first write.
func (r *mongoLegacyRepository) Save(ctx context.Context, ls *model.LegacySchedule) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ls.ID = model.LegacyScheduleID
	ls.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": model.LegacyScheduleID},
		ls,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save legacy schedule: %w", err)
	}
	return nil
}
