package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
)

// validate is the shared validator instance. go-playground/validator
// caches struct metadata internally, so one instance for the whole
// handler package is both the cheap and the intended usage.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate decodes the JSON request body into dst and checks
// its `validate` struct tags. Any failure comes back as a typed
// validation error so writeError maps it to 400 with field detail.
//
// This is the input-contract boundary: handlers call it before any
// domain logic runs, and services can assume required fields are set.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("body", "request body is required")
		}
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return validateStruct(dst)
}

// validateStruct runs tag validation on an already-populated struct.
func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		// Report the first failing field — one actionable message beats
		// a wall of them.
		fe := ve[0]
		field := fieldName(fe)
		return apperror.ValidationFailed(field, fieldMessage(field, fe))
	}
	return apperror.ValidationFailed("body", "invalid request body")
}

// validateUUIDParam checks that a path parameter is UUID-shaped.
// Meal ids are UUIDs, so anything else is rejected at the boundary
// before it reaches the database.
func validateUUIDParam(name, value string) error {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return apperror.ValidationFailed(name, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return nil
}

// fieldName prefers the json tag name over the Go field name, so error
// messages talk about "meal_date", not "MealDate".
func fieldName(fe validator.FieldError) string {
	// fe.Field() returns the struct field name; our request structs use
	// snake_case json tags that match the API's wire format.
	switch f := fe.Field(); f {
	case "MealDate":
		return "meal_date"
	default:
		return strings.ToLower(f)
	}
}

// fieldMessage converts a single failed tag into a human-readable message.
func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
	case "uuid":
		return field + " must be a valid UUID"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
