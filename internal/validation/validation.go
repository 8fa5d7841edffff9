// Package validation checks inbound payloads before any handler touches the database.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	PasswordMinimumLength = 12
	// bcrypt rejects input past 72 bytes
	PasswordMaximumBytes = 72
)

// first character anything but a decimal digit, the rest word characters in any script
var usernamePattern = regexp.MustCompile(`^[^\p{Nd}][\p{L}\p{Mn}\p{Nd}\p{Pc}]*$`)

// FieldError is one failed rule, serialised as {propertyName, errorMessage}.
type FieldError struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// ValidationError carries every failed rule of a payload.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.PropertyName+": "+fe.ErrorMessage)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a go-playground engine configured with the payload rules.
type Validator struct {
	engine *validator.Validate
}

func New() *Validator {
	engine := validator.New(validator.WithRequiredStructEnabled())
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimals validate as float64 so numeric tags such as min=0 apply to them
	engine.RegisterCustomTypeFunc(func(v reflect.Value) any {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	mustRegister(engine, "maxbytes", maxBytes)
	mustRegister(engine, "username", validUsername)
	mustRegister(engine, "strongpassword", strongPassword)
	mustRegister(engine, "jsonvalue", presentJSON)
	return &Validator{engine: engine}
}

func mustRegister(engine *validator.Validate, tag string, fn validator.Func) {
	if err := engine.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Struct validates payload and returns a *ValidationError listing every failure.
func (v *Validator) Struct(payload any) error {
	err := v.engine.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			PropertyName: fe.Field(),
			ErrorMessage: message(fe),
		})
	}
	return out
}

// Single wraps one field failure discovered outside the tag rules, e.g. a malformed body.
func Single(property, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{PropertyName: property, ErrorMessage: msg}}}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' must be provided.", fe.Field())
	case "max":
		return fmt.Sprintf("'%s' must be %s characters or fewer.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("'%s' must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("'%s' must be greater than or equal to %s.", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("'%s' must be %s bytes or fewer.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("'%s' is not a valid email address.", fe.Field())
	case "username":
		return "Username cannot start with a number and may contain only letters, digits and underscores."
	case "strongpassword":
		return "Password must contain lowercase, uppercase, number, and symbol."
	case "jsonvalue":
		return fmt.Sprintf("'%s' must be a JSON value.", fe.Field())
	default:
		return fmt.Sprintf("'%s' is invalid.", fe.Field())
	}
}

// maxBytes bounds the UTF-8 encoded length, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}
	return len(fl.Field().String()) <= limit
}

func validUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// strongPassword requires a lowercase letter, an uppercase letter, a digit and a
// character outside [A-Za-z0-9] (underscore counts as a symbol).
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r)):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// presentJSON accepts any JSON value except an absent one or a literal null.
func presentJSON(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(json.RawMessage)
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && json.Valid(trimmed)
}
