package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse is one entry of the "errors" list returned on a 400.
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "max":
		return fmt.Sprintf("Must not exceed %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	default:
		return "Invalid value"
	}
}

func jsonFieldName(model any, field string) string {
	if model == nil {
		return field
	}

	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return field
	}

	sf, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field
	}
	return name
}

// FormatValidationErrors flattens binding failures into field/message pairs,
// naming fields the way the client sent them. It returns nil for errors that
// are neither validation nor JSON type failures.
func FormatValidationErrors(err error, model any) []ValidationErrorResponse {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorResponse{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, got %s", typeErr.Type, typeErr.Value),
		}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]ValidationErrorResponse, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationErrorResponse{
			Field:   jsonFieldName(model, fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}
