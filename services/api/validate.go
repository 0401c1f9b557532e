package api

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Ratings are displayed with half-star precision.
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		doubled := f.Float() * 2
		return doubled == math.Trunc(doubled)
	})
	return v
}

// validateBody checks a decoded response. Slices are validated element by element.
func validateBody(path string, body any) error {
	rv := reflect.ValueOf(body)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &SchemaError{Path: path, Err: errNilBody}
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := validate.Struct(rv.Index(i).Interface()); err != nil {
				return &SchemaError{Path: path, Err: err}
			}
		}
		return nil
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(rv.Interface()); err != nil {
		return &SchemaError{Path: path, Err: err}
	}
	return nil
}
