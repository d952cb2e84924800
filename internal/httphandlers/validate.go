package httphandlers

import (
	"domainkeeper/internal/service"
	"domainkeeper/internal/types"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		return field.Interface().(types.Nullable[uint]).Validatable()
	}, types.Nullable[uint]{})
	return v
}

// validationError turns validator failures into field messages keyed by json name
func validationError(err error) error {
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return err
	}

	result := &service.ValidationError{}
	for _, fe := range vErrors {
		field := fe.Field()
		// dive errors are reported as configurations[0]
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i] + "." + strings.Trim(field[i:], "[]")
		}
		result.Add(field, fieldMessage(fe, field))
	}
	return result
}

func fieldMessage(fe validator.FieldError, field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "fqdn":
		return fmt.Sprintf("The %s must be a valid domain name.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", label, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	}
	return fmt.Sprintf("The %s is invalid.", label)
}
