package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salonhours/pkg/logger"
	"salonhours/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type HolidayValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHolidayValidator(log *logger.Logger) *HolidayValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("weekday_keys", validateWeekdayKeys); err != nil {
		log.Fatal("Failed to register 'weekday_keys' validator", "error", err)
	}
	v.RegisterStructValidation(validateClosureNotice, model.ClosureNotice{})
	v.RegisterStructValidation(validateLegacySchedule, model.LegacySchedule{})

	log.Info("Holiday validator initialized successfully")

	return &HolidayValidator{
		validate: v,
		logger:   log,
	}
}

func validateWeekdayKeys(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	for _, key := range field.MapKeys() {
		if key.Kind() != reflect.String || !model.Weekday(key.String()).Valid() {
			return false
		}
	}
	return true
}

func validateClosureNotice(sl validator.StructLevel) {
	n := sl.Current().Interface().(model.ClosureNotice)
	if n.From == "" || n.To == "" {
		return
	}
	from, errFrom := time.Parse(model.DateLayout, n.From)
	to, errTo := time.Parse(model.DateLayout, n.To)
	if errFrom != nil || errTo != nil {
		return
	}
	if to.Before(from) {
		sl.ReportError(n.To, "to", "To", "date_order", "from")
	}
}

// validateLegacySchedule requires both window dates when the schedule is
// enabled and rejects a window whose end precedes its start.
func validateLegacySchedule(sl validator.StructLevel) {
	l := sl.Current().Interface().(model.LegacySchedule)
	if l.Enabled {
		if strings.TrimSpace(l.StartDate) == "" {
			sl.ReportError(l.StartDate, "start_date", "StartDate", "required_when_enabled", "")
		}
		if strings.TrimSpace(l.EndDate) == "" {
			sl.ReportError(l.EndDate, "end_date", "EndDate", "required_when_enabled", "")
		}
	}
	if l.StartDate == "" || l.EndDate == "" {
		return
	}
	start, errStart := time.Parse(model.DateLayout, l.StartDate)
	end, errEnd := time.Parse(model.DateLayout, l.EndDate)
	if errStart != nil || errEnd != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(l.EndDate, "end_date", "EndDate", "date_order", "start_date")
	}
}

func (v *HolidayValidator) Validate(hs *model.HolidaySchedule) error {
	return v.validateStruct(hs)
}

func (v *HolidayValidator) ValidateLegacy(ls *model.LegacySchedule) error {
	return v.validateStruct(ls)
}

func (v *HolidayValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *HolidayValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object id", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "weekday_keys":
			message = fmt.Sprintf("%s keys must be weekday names (monday-sunday)", err.Field())
		case "required_when_enabled":
			message = fmt.Sprintf("%s is required when the schedule is enabled", err.Field())
		case "date_order":
			message = fmt.Sprintf("%s must not be earlier than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
