package service

import (
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salonhours/internal/holidays/activation"
	"salonhours/internal/holidays/cache"
	holidayerrors "salonhours/internal/holidays/errors"
	"salonhours/internal/holidays/validator"
	"salonhours/pkg/config"
	mongotx "salonhours/pkg/db/mongo"
	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

// mockHolidayRepository keeps records in memory. ExecuteTransaction restores
// the previous records when fn fails so tests can check rollback. Any *Func
// field overrides the in-memory behaviour.
type mockHolidayRepository struct {
	mu      sync.Mutex
	records []*model.HolidaySchedule
	clock   time.Time

	createFunc         func(ctx context.Context, hs *model.HolidaySchedule) error
	findAllFunc        func(ctx context.Context) ([]*model.HolidaySchedule, error)
	findPageFunc       func(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, error)
	countFunc          func(ctx context.Context) (int64, error)
	updateFunc         func(ctx context.Context, id string, hs *model.HolidaySchedule) error
	setActiveFlagsFunc func(ctx context.Context, flips activation.FlipSet) error

	transactions int
}

func newMockHolidayRepository(records ...*model.HolidaySchedule) *mockHolidayRepository {
	return &mockHolidayRepository{
		records: records,
		clock:   time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockHolidayRepository) Create(ctx context.Context, hs *model.HolidaySchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, hs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	hs.ID = primitive.NewObjectID().Hex()
	hs.CreatedAt = m.clock
	hs.UpdatedAt = m.clock
	cp := *hs
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockHolidayRepository) FindByID(ctx context.Context, id string) (*model.HolidaySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, holidayerrors.ErrNotFound
}

func (m *mockHolidayRepository) FindAll(ctx context.Context) ([]*model.HolidaySchedule, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies(), nil
}

func (m *mockHolidayRepository) FindPage(ctx context.Context, limit int, offset int64) ([]*model.HolidaySchedule, error) {
	if m.findPageFunc != nil {
		return m.findPageFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copies(), nil
}

func (m *mockHolidayRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *mockHolidayRepository) Update(ctx context.Context, id string, hs *model.HolidaySchedule) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, hs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records {
		if rec.ID == id {
			cp := *hs
			m.records[i] = &cp
			return nil
		}
	}
	return holidayerrors.ErrNotFound
}

func (m *mockHolidayRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return holidayerrors.ErrNotFound
}

func (m *mockHolidayRepository) SetActiveFlags(ctx context.Context, flips activation.FlipSet) error {
	if m.setActiveFlagsFunc != nil {
		return m.setActiveFlagsFunc(ctx, flips)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, flip := range flips {
		found := false
		for _, rec := range m.records {
			if rec.ID == flip.ID {
				rec.IsActive = flip.Active
				found = true
			}
		}
		if !found {
			return holidayerrors.ErrFlipSetIncomplete
		}
	}
	return nil
}

func (m *mockHolidayRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.mu.Lock()
	m.transactions++
	saved := m.copies()
	m.mu.Unlock()

	if err := fn(mongo.NewSessionContext(ctx, nil)); err != nil {
		m.mu.Lock()
		m.records = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *mockHolidayRepository) copies() []*model.HolidaySchedule {
	out := make([]*model.HolidaySchedule, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out
}

func (m *mockHolidayRepository) activeIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, rec := range m.records {
		if rec.IsActive {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

type mockLegacyRepository struct {
	stored  *model.LegacySchedule
	getErr  error
	saveErr error
	saves   int
}

func (m *mockLegacyRepository) Get(ctx context.Context) (*model.LegacySchedule, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return nil, holidayerrors.ErrLegacyNotFound
	}
	cp := *m.stored
	return &cp, nil
}

func (m *mockLegacyRepository) Save(ctx context.Context, ls *model.LegacySchedule) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := *ls
	cp.ID = model.LegacyScheduleID
	m.stored = &cp
	return nil
}

type fakeCache struct {
	snap        *model.Snapshot
	generation  int64
	gets        int
	sets        int
	invalidated int
	invErr      error
	genErr      error
	setErr      error
	// onGeneration runs after Generation is read, standing in for a write
	// that lands while the store is being read.
	onGeneration func(c *fakeCache)
}

func (c *fakeCache) Get(ctx context.Context) (*model.Snapshot, bool) {
	c.gets++
	if c.snap == nil {
		return nil, false
	}
	return c.snap, true
}

func (c *fakeCache) Generation(ctx context.Context) (int64, error) {
	gen := c.generation
	if c.onGeneration != nil {
		c.onGeneration(c)
	}
	return gen, c.genErr
}

func (c *fakeCache) Set(ctx context.Context, generation int64, snap *model.Snapshot) error {
	if c.setErr != nil {
		return c.setErr
	}
	if generation != c.generation {
		return cache.ErrStaleSnapshot
	}
	c.sets++
	c.snap = snap
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.generation++
	c.snap = nil
	return c.invErr
}

type publishedEvent struct {
	eventType string
	key       string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType, key string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{eventType: eventType, key: key, payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

func testConfig(out io.Writer) *config.Config {
	if out == nil {
		out = io.Discard
	}
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:  "info",
			Format: logger.JSON,
			Output: out,
		}),
		ReadTimeout: 5 * time.Second,
		Location:    time.UTC,
		BaseHours:   config.DefaultBaseHours(),
	}
}

func testValidator(cfg *config.Config) *validator.HolidayValidator {
	return validator.NewHolidayValidator(cfg.Log)
}
