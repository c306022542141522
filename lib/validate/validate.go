package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// at least one @, at least one dot after it, no whitespace
	emailShapeRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// optional leading + or digit, then 6-18 digits, spaces, hyphens, parens
	phoneRx = regexp.MustCompile(`^[+\d][\d\s\-()]{6,18}$`)
)

var instance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShapeRx.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRx.MatchString(fl.Field().String())
	})
	return v
}

// Fields validates a struct and returns a map of json field name to the
// name of the first rule that failed for that field. An empty map means the
// value is valid. All fields are checked together, nothing short-circuits.
func Fields(s interface{}) map[string]string {
	failed := make(map[string]string)
	err := instance.Struct(s)
	if err == nil {
		return failed
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			if _, ok := failed[fieldErr.Field()]; !ok {
				failed[fieldErr.Field()] = fieldErr.Tag()
			}
		}
	}
	return failed
}

// Struct validates a single struct object and reports all rule failures
// in one error message.
func Struct(s interface{}) error {
	if s == nil {
		return fmt.Errorf("is nil")
	}
	failed := Fields(s)
	if len(failed) == 0 {
		return nil
	}
	message := ""
	for field, rule := range failed {
		if len(message) > 0 {
			message += "; "
		}
		message += fmt.Sprintf("%s %s", field, rule)
	}
	return errors.New(message)
}
