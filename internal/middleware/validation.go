package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// maxMoney bounds amounts stored as NUMERIC(12,2)
var maxMoney = decimal.New(1, 10)

var (
	ErrEmptyBody     = errors.New("request body is required")
	ErrMalformedBody = errors.New("request body is not valid JSON")
	ErrBodyTooLarge  = errors.New("request body is too large")
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("money", money); err != nil {
		panic(err)
	}

	// Lets numeric tags (gt, gte, lte) apply to money amounts
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// money accepts amounts with at most two decimal places and below 10^10
func money(fl validator.FieldLevel) bool {
	d, ok := decimalField(fl)
	if !ok {
		return false
	}
	return d.Equal(d.Truncate(2)) && d.Abs().LessThan(maxMoney)
}

// decimalField recovers the decimal behind a field. The custom type func hands
// validations a float64, so the exact value is read back from the parent struct.
func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if parent := reflect.Indirect(fl.Parent()); parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(fl.StructFieldName()); f.IsValid() && f.CanInterface() {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return d, true
			}
		}
	}

	switch field := fl.Field(); field.Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(field.Float()), true
	}
	return decimal.Decimal{}, false
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v any) error {
	return validate.Struct(v)
}

// ValidateVar validates a non-struct value, such as a list body, against tag
func ValidateVar(v any, tag string) error {
	return validate.Var(v, tag)
}

// DecodeJSON decodes the request body into v. Missing, empty and null bodies
// are reported as ErrEmptyBody, bodies over 1MB as ErrBodyTooLarge.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return ErrEmptyBody
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v any) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// IsBodyError reports whether err means the body could not be read at all
func IsBodyError(err error) bool {
	return errors.Is(err, ErrEmptyBody) || errors.Is(err, ErrMalformedBody) || errors.Is(err, ErrBodyTooLarge)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Field:   fieldPath(e),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

// fieldPath drops the root struct name from the namespace: "CategoryRequest.name" -> "name".
// List items keep their index: "[2].quantity".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if !strings.HasPrefix(ns, "[") {
		if _, rest, found := strings.Cut(ns, "."); found {
			ns = rest
		}
	}
	if ns == "" {
		return "body"
	}
	return ns
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "url":
		return "must be a valid URL"
	case "money":
		return "must have at most 2 decimal places and be less than 10000000000"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " items"
		}
		return "size must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.Slice {
			return "must contain at most " + e.Param() + " items"
		}
		return "size must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "invalid value"
	}
}
