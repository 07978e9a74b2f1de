package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
)

// Configure installs the gateway's error handler, JSON serializer and
// request validator on e.
func Configure(e *echo.Echo, logger *slog.Logger) {
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
}

// JSONSerializer implements echo.JSONSerializer with goccy/go-json.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i any) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	var ute *json.UnmarshalTypeError
	var se *json.SyntaxError
	switch {
	case errors.As(err, &ute):
		return apierror.Unprocessable("invalid type for field %q: expected %v", ute.Field, ute.Type)
	case errors.As(err, &se):
		return apierror.Unprocessable("malformed JSON body at offset %d", se.Offset)
	case err != nil:
		return apierror.Unprocessable("invalid JSON body: %v", err)
	}
	return nil
}

// Validator adapts go-playground/validator to echo.Validator. Field names in
// messages are the JSON names.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator reporting failures as 422 errors.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.Unprocessable("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return apierror.Unprocessable("%s", strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %q is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("field %q must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("field %q must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %q failed %q validation", fe.Field(), fe.Tag())
	}
}

// bindBody decodes the JSON body into in and validates it. Path and query
// parameters are never bound into request payloads.
func bindBody(c echo.Context, in any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, in); err != nil {
		var ae *apierror.Error
		if errors.As(err, &ae) {
			return ae
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return err
		}
		return apierror.Unprocessable("invalid request body")
	}
	return c.Validate(in)
}
