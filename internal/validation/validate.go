// Package validation checks request DTOs against their struct tags and
// reports failures per JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"blogmesh/internal/models"

	"github.com/go-playground/validator/v10"
)

// Messages is implemented by request types that word their own failures.
// Keys are "<jsonField>.<tag>", or "<jsonField>" to cover every check on the
// field. Checks without an entry fall back to a generic message.
type Messages interface {
	ValidationMessages() map[string]string
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() != reflect.String {
				return true
			}
			return strings.TrimSpace(f.String()) != ""
		})
		validate = v
	})
	return validate
}

// Struct validates s and returns a field validation AppError listing every
// failed field, or nil.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}
	var custom map[string]string
	if m, ok := s.(Messages); ok {
		custom = m.ValidationMessages()
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		if msg, ok := custom[name+"."+fe.Tag()]; ok {
			fields[name] = msg
		} else if msg, ok := custom[name]; ok {
			fields[name] = msg
		} else {
			fields[name] = message(fe)
		}
	}
	return models.NewFieldValidationError(fields)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s cannot be blank", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
