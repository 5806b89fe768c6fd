package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// ScheduleParser accepts 5-field cron expressions and descriptors such as
// "@every 30s". The scheduler parses sync.schedule with it too.
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var validate = newValidator()

// newValidator reports fields by their koanf keys and knows the cron tag
// and the retry interval ordering.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		return name
	})

	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		_, err := ScheduleParser.Parse(fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r, _ := sl.Current().Interface().(RetryConfig)
		if r.MaxInterval < r.InitialInterval {
			sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "InitialInterval")
		}
	}, RetryConfig{})

	return v
}

// Validate checks every field and reports all failures at once. The
// service refuses to start on an invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, snakeCase(e.Param()))
	case "min", "gtefield":
		return fmt.Sprintf("%s must be at least %s", field, snakeCase(e.Param()))
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return field + " must be a valid URL"
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, snakeCase(e.Param()))
	case "cron":
		return fmt.Sprintf("%s: %q is not a cron expression", field, e.Value())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath turns "Config.sync.schedule" into "sync.schedule".
// Segments still named after Go types, the root and squashed embeds, are
// dropped.
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	keys := parts[:0]

	for _, part := range parts {
		if part != "" && unicode.IsUpper([]rune(part)[0]) {
			continue
		}

		keys = append(keys, part)
	}

	return strings.Join(keys, ".")
}

// snakeCase turns a Go field name into its koanf key: QuotesKey → quotes_key.
// Params that are not field names pass through with only case folded.
func snakeCase(s string) string {
	var b strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}
