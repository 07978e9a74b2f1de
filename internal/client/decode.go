package client

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var errNullBody = errors.New("response body is null")

// responses checks decoded 2xx bodies against the `validate` tags of the
// target model.
var responses = newResponseValidator()

func newResponseValidator() *validator.Validate {
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
	return v
}

// decode unmarshals a 2xx body into out and rejects bodies that parse but do
// not carry the fields the model requires. A top-level null is rejected.
func decode(data []byte, out any) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullBody
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	if err := validateResponse(reflect.ValueOf(out)); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}

func validateResponse(v reflect.Value) error {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return responses.Struct(v.Interface())
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := validateResponse(v.Index(i)); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
