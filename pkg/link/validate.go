package link

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/aretw0/modulink/pkg/domain"
)

// CodeValidation is the business error code recorded by Validate.
const CodeValidation = "VALIDATION_ERROR"

// Validator inspects a context and returns a non-nil error describing the first problem found.
type Validator func(v domain.View) error

// Validate records one business error per failing validator and lets the
// chain route on it (e.g. with domain.HasErrors()). It never returns an error itself.
func Validate(name string, validators ...Validator) *FuncLink {
	return New(name, func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		for _, validate := range validators {
			if err := validate(c.View()); err != nil {
				c = c.AddError(err.Error(), CodeValidation)
			}
		}
		return c, nil
	})
}

// Required fails when any key is missing or nil.
func Required(keys ...string) Validator {
	return func(v domain.View) error {
		var missing []string
		for _, k := range keys {
			if val, ok := v.Get(k); !ok || val == nil {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("Missing required fields: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// Types fails when a present, non-nil value has another kind than expected.
func Types(schema map[string]reflect.Kind) Validator {
	return func(v domain.View) error {
		keys := make([]string, 0, len(schema))
		for k := range schema {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			val, ok := v.Get(k)
			if !ok || val == nil {
				continue
			}
			if got := reflect.TypeOf(val).Kind(); got != schema[k] {
				return fmt.Errorf("Field '%s' should be %s but got %s", k, schema[k], got)
			}
		}
		return nil
	}
}

// Custom adapts a plain predicate; message is used when it returns false.
func Custom(fn func(v domain.View) bool, message string) Validator {
	return func(v domain.View) error {
		if !fn(v) {
			return errors.New(message)
		}
		return nil
	}
}
