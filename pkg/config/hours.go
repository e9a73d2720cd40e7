package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"salonhours/pkg/model"
)

// BaseHoursConfig is the root of base_hours.yaml. An empty string for a
// weekday means the salon has no regular hours that day.
type BaseHoursConfig struct {
	Hours map[string]string `yaml:"hours"`
}

// DefaultBaseHours is used when no base hours file is present.
func DefaultBaseHours() model.WeeklyHours {
	return model.WeeklyHours{
		model.Monday:    "10:00 - 19:00",
		model.Tuesday:   "10:00 - 19:00",
		model.Wednesday: "10:00 - 19:00",
		model.Thursday:  "10:00 - 20:00",
		model.Friday:    "10:00 - 20:00",
		model.Saturday:  "09:00 - 16:00",
		model.Sunday:    ClosedLabel,
	}
}

const ClosedLabel = "closed"

// LoadBaseHours reads the weekly base hours table. A missing file yields
// DefaultBaseHours; weekdays left out of the file keep their default.
func LoadBaseHours(path string) (model.WeeklyHours, error) {
	hours := DefaultBaseHours()
	if path == "" {
		return hours, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hours, nil
		}
		return nil, fmt.Errorf("read base hours: %w", err)
	}

	var cfg BaseHoursConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse base hours: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate base hours: %w", err)
	}

	for key, value := range cfg.Hours {
		day, _ := model.ParseWeekday(key)
		hours[day] = strings.TrimSpace(value)
	}
	return hours, nil
}

func (c *BaseHoursConfig) Validate() error {
	var bad []string
	for key := range c.Hours {
		if _, ok := model.ParseWeekday(key); !ok {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unknown weekday keys: %s", strings.Join(bad, ", "))
	}
	return nil
}
