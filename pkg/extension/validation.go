package extension

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exterr"
)

// ValidationError reports a value of the wrong shape.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func typeError(field, want string, value any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s must be %s, got %s", field, want, kindOf(value)),
	}
}

// kindOf names the dynamic type of a decoded JSON or YAML value.
func kindOf(value any) string {
	if value == nil {
		return "null"
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return reflect.TypeOf(value).Kind().String()
	}
}

// ValidateString asserts that value is a string.
func ValidateString(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", typeError(field, "a string", value)
	}
	return s, nil
}

// ValidateNumber asserts that value is a number other than NaN.
func ValidateNumber(value any, field string) (float64, error) {
	var f float64
	switch n := value.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, typeError(field, "a number", value)
	}
	if math.IsNaN(f) {
		return 0, &ValidationError{Field: field, Message: field + " must be a number, got NaN"}
	}
	return f, nil
}

// ValidateBool asserts that value is a boolean.
func ValidateBool(value any, field string) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, typeError(field, "a boolean", value)
	}
	return b, nil
}

// ValidateSlice asserts that value is a slice and validates each element.
func ValidateSlice[T any](value any, field string, elem func(v any, index int) (T, error)) ([]T, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, typeError(field, "an array", value)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := elem(item, i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ValidateMap asserts that value is an object and hands it to fn.
func ValidateMap[T any](value any, field string, fn func(m map[string]any) (T, error)) (T, error) {
	m, ok := value.(map[string]any)
	if !ok {
		var zero T
		return zero, typeError(field, "an object", value)
	}
	return fn(m)
}

// ValidateEnum asserts that value is one of allowed.
func ValidateEnum[T ~string](value any, field string, allowed []T) (T, error) {
	s, err := ValidateString(value, field)
	if err != nil {
		return "", err
	}
	if !slices.Contains(allowed, T(s)) {
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return "", &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be one of [%s], got %s", field, strings.Join(names, ", "), s),
		}
	}
	return T(s), nil
}

// ValidateEnvironmentVariable returns the value of name. Only an undefined
// variable fails; an empty value is returned as is.
func ValidateEnvironmentVariable(name string, g envcheck.Getter) (string, error) {
	value, ok := g.LookupEnv(name)
	if !ok {
		return "", &ValidationError{Field: name, Message: "Missing required environment variable: " + name}
	}
	return value, nil
}

// ValidatePaths checks that every path exists.
func ValidatePaths(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return exterr.New(exterr.CodeInvalidPath, fmt.Sprintf("path %s does not exist", p), err)
		}
	}
	return nil
}
