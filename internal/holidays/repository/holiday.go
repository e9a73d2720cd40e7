package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonhours/internal/holidays/activation"
	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/pkg/config"
	mongotx "salonhours/pkg/db/mongo"
	"salonhours/pkg/model"
)

const (
	CollectionName = "HolidaySchedules"
)

type mongoHolidayRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type HolidayRepository interface {
	Create(ctx context.Context, hs *model.HolidaySchedule) error
	FindByID(ctx context.Context, id string) (*model.HolidaySchedule, error)
	// FindAll returns the whole registry in snapshot order: oldest first.
	FindAll(ctx context.Context) ([]*model.HolidaySchedule, error)
	FindPage(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, hs *model.HolidaySchedule) error
	Delete(ctx context.Context, id string) error
	SetActiveFlags(ctx context.Context, flips activation.FlipSet) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoHolidayRepository(cfg *config.Config) HolidayRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHolidayRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout bounds ctx unless it is a transaction session, which must be
// passed through untouched.
func (r *mongoHolidayRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHolidayRepository) Create(ctx context.Context, hs *model.HolidaySchedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	hs.ID = ""
	hs.CreatedAt = now
	hs.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, hs)
	if err != nil {
		return fmt.Errorf("failed to create holiday schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hs.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHolidayRepository) FindByID(ctx context.Context, id string) (*model.HolidaySchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", holidayerrors.ErrInvalidID, id)
	}

	var hs model.HolidaySchedule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", holidayerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find holiday schedule: %w", err)
	}

	return &hs, nil
}

func (r *mongoHolidayRepository) FindAll(ctx context.Context) ([]*model.HolidaySchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	return r.find(ctx, opts)
}

func (r *mongoHolidayRepository) FindPage(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		})

	return r.find(ctx, opts)
}

func (r *mongoHolidayRepository) find(ctx context.Context, opts *options.FindOptions) ([]*model.HolidaySchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query holiday schedules: %w", err)
	}
	defer cursor.Close(ctx)

	schedules := []*model.HolidaySchedule{}
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode holiday schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoHolidayRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count holiday schedules: %w", err)
	}
	return count, nil
}

func (r *mongoHolidayRepository) Update(ctx context.Context, id string, hs *model.HolidaySchedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", holidayerrors.ErrInvalidID, id)
	}

	hs.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"name":            hs.Name,
			"type":            hs.Type,
			"is_active":       hs.IsActive,
			"hours":           hs.Hours,
			"closed":          hs.Closed,
			"dates":           hs.Dates,
			"closure_notices": hs.ClosureNotices,
			"updated_at":      hs.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update holiday schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", holidayerrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoHolidayRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", holidayerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete holiday schedule: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", holidayerrors.ErrNotFound, id)
	}
	return nil
}

// SetActiveFlags writes a flip-set as one ordered bulk write. Run it inside
// ExecuteTransaction: a record that vanished since the snapshot makes the
// matched count fall short and the error aborts the whole batch.
func (r *mongoHolidayRepository) SetActiveFlags(ctx context.Context, flips activation.FlipSet) error {
	if len(flips) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models, err := flipSetModels(flips, time.Now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return err
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: another record became active: %v", holidayerrors.ErrFlipSetIncomplete, err)
		}
		return fmt.Errorf("failed to apply flip-set: %w", err)
	}

	if result.MatchedCount != int64(len(flips)) {
		return fmt.Errorf("%w: matched %d of %d", holidayerrors.ErrFlipSetIncomplete, result.MatchedCount, len(flips))
	}
	return nil
}

// flipSetModels emits every deactivation before the activation so the
// partial unique index on is_active never sees two active records mid-batch.
func flipSetModels(flips activation.FlipSet, now time.Time) ([]mongo.WriteModel, error) {
	ordered := make(activation.FlipSet, 0, len(flips))
	for _, flip := range flips {
		if !flip.Active {
			ordered = append(ordered, flip)
		}
	}
	for _, flip := range flips {
		if flip.Active {
			ordered = append(ordered, flip)
		}
	}

	models := make([]mongo.WriteModel, 0, len(ordered))
	for _, flip := range ordered {
		objectID, err := primitive.ObjectIDFromHex(flip.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", holidayerrors.ErrInvalidID, flip.ID)
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": objectID}).
			SetUpdate(bson.M{"$set": bson.M{
				"is_active":  flip.Active,
				"updated_at": now,
			}}))
	}
	return models, nil
}

func (r *mongoHolidayRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
