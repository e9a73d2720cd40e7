package model

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the week in display order, Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

type HolidayType string

const (
	HolidayChristmas HolidayType = "christmas"
	HolidayNewYear   HolidayType = "newyear"
	HolidayEaster    HolidayType = "easter"
	HolidayOther     HolidayType = "other"
)

type HolidaySource string

const (
	SourceNone     HolidaySource = ""
	SourceRegistry HolidaySource = "registry"
	SourceLegacy   HolidaySource = "legacy"
)

type ClosureNotice struct {
	ID   string `json:"id" bson:"id"`
	From string `json:"from,omitempty" bson:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" bson:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// HolidaySchedule is one named entry of the holiday registry. At most one
// entry across the collection may have IsActive set.
type HolidaySchedule struct {
	ID             string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string             `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type           HolidayType        `json:"type" bson:"type" validate:"required,oneof=christmas newyear easter other"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	Hours          map[Weekday]string `json:"hours" bson:"hours" validate:"omitempty,weekday_keys,dive,max=50"`
	Closed         map[Weekday]bool   `json:"closed" bson:"closed" validate:"omitempty,weekday_keys"`
	Dates          map[Weekday]string `json:"dates,omitempty" bson:"dates,omitempty" validate:"omitempty,weekday_keys,dive,omitempty,datetime=2006-01-02"`
	ClosureNotices []ClosureNotice    `json:"closure_notices" bson:"closure_notices" validate:"omitempty,max=50,dive"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type HolidayScheduleUpdate struct {
	Name           *string            `json:"name,omitempty"`
	Type           *HolidayType       `json:"type,omitempty"`
	IsActive       *bool              `json:"is_active,omitempty"`
	Hours          map[Weekday]string `json:"hours,omitempty"`
	Closed         map[Weekday]bool   `json:"closed,omitempty"`
	Dates          map[Weekday]string `json:"dates,omitempty"`
	ClosureNotices *[]ClosureNotice   `json:"closure_notices,omitempty"`
}

// NewHolidaySchedule returns a blank registry entry with every field empty
// and the neutral type.
func NewHolidaySchedule() *HolidaySchedule {
	return &HolidaySchedule{
		Type:           HolidayOther,
		Hours:          map[Weekday]string{},
		Closed:         map[Weekday]bool{},
		Dates:          map[Weekday]string{},
		ClosureNotices: []ClosureNotice{},
	}
}

const LegacyScheduleID = "christmas"

// LegacySchedule is the singleton schedule driven by an explicit date
// window. IsActive is a cached value and never read by the resolver.
type LegacySchedule struct {
	ID        string             `json:"-" bson:"_id"`
	Enabled   bool               `json:"enabled" bson:"enabled"`
	StartDate string             `json:"start_date" bson:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string             `json:"end_date" bson:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Hours     map[Weekday]string `json:"hours" bson:"hours" validate:"omitempty,weekday_keys,dive,max=50"`
	Closed    map[Weekday]bool   `json:"closed" bson:"closed" validate:"omitempty,weekday_keys"`
	Dates     map[Weekday]string `json:"dates,omitempty" bson:"dates,omitempty" validate:"omitempty,weekday_keys,dive,omitempty,datetime=2006-01-02"`
	IsActive  bool               `json:"is_active" bson:"is_active"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Snapshot is a point-in-time read of both schedule shapes.
type Snapshot struct {
	Registry []*HolidaySchedule `json:"registry"`
	Legacy   *LegacySchedule    `json:"legacy,omitempty"`
}

type WeeklyHours map[Weekday]string

type Theme struct {
	Type         HolidayType `json:"type"`
	PrimaryColor string      `json:"primary_color"`
	AccentColor  string      `json:"accent_color"`
	Icon         string      `json:"icon"`
}

type ResolvedHours struct {
	Weekday         Weekday       `json:"weekday"`
	EffectiveHours  string        `json:"effective_hours"`
	IsHolidayActive bool          `json:"is_holiday_active"`
	Theme           *Theme        `json:"theme,omitempty"`
	DateLabel       string        `json:"date_label,omitempty"`
	Source          HolidaySource `json:"source,omitempty"`
}

type FooterHours struct {
	Date           string          `json:"date"`
	Days           []ResolvedHours `json:"days"`
	ClosureNotices []ClosureNotice `json:"closure_notices"`
	Degraded       bool            `json:"degraded,omitempty"`
}
