package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		// report field names as they appear on the wire
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// Struct validates a single struct object against its validate tags.
func Struct(s interface{}) error {
	if s == nil {
		return errors.New("is nil")
	}
	if !isStruct(s) {
		return errors.New("not a struct")
	}

	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			parts = append(parts, fmt.Sprintf("%s %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return errors.New(strings.Join(parts, "; "))
	}
	return fmt.Errorf("validation: %w", err)
}

func isStruct(s interface{}) bool {
	r := reflect.TypeOf(s)
	if r.Kind() == reflect.Ptr {
		r = r.Elem()
	}
	return r.Kind() == reflect.Struct
}
