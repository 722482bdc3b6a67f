package domain

import (
	"errors"
	"reflect"
)

// Condition decides whether a connection is taken, given the context a link returned.
type Condition func(View) bool

// Always is satisfied by every context.
func Always() Condition {
	return func(View) bool { return true }
}

// HasErrors is satisfied when a business error was recorded.
func HasErrors() Condition {
	return func(v View) bool { return v.HasErrors() }
}

// HasErrorCode is satisfied when a business error with the given code was recorded.
func HasErrorCode(code string) Condition {
	return func(v View) bool {
		for _, e := range v.Errors() {
			if e.Code == code {
				return true
			}
		}
		return false
	}
}

// HasException is satisfied when link code failed.
func HasException() Condition {
	return func(v View) bool { return v.Exception() != nil }
}

// ExceptionIs is satisfied when the exception matches target per errors.Is.
func ExceptionIs(target error) Condition {
	return func(v View) bool {
		err := v.Exception()
		return err != nil && errors.Is(err, target)
	}
}

// KeyExists is satisfied when key is present in the payload.
func KeyExists(key string) Condition {
	return func(v View) bool {
		_, ok := v.Get(key)
		return ok
	}
}

// KeyEquals is satisfied when the payload holds a value deeply equal to want under key.
func KeyEquals(key string, want any) Condition {
	return func(v View) bool {
		got, ok := v.Get(key)
		return ok && reflect.DeepEqual(got, want)
	}
}

// Not negates c.
func Not(c Condition) Condition {
	return func(v View) bool { return !c(v) }
}

// All is satisfied when every condition is.
func All(conds ...Condition) Condition {
	return func(v View) bool {
		for _, c := range conds {
			if !c(v) {
				return false
			}
		}
		return true
	}
}

// Any is satisfied when at least one condition is.
func Any(conds ...Condition) Condition {
	return func(v View) bool {
		for _, c := range conds {
			if c(v) {
				return true
			}
		}
		return false
	}
}
