package domain

// Getter is implemented by *Context and View.
type Getter interface {
	Get(key string) (any, bool)
}

// Value returns the value under key converted to T.
// It reports false when the key is missing or holds another type.
func Value[T any](src Getter, key string) (T, bool) {
	var zero T
	raw, ok := src.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// View is a read-only window on a Context, handed to middleware and
// connection conditions so they can observe without altering the run.
// The zero View reads as an empty context.
type View struct {
	c *Context
}

// Valid reports whether the view is backed by a Context.
func (v View) Valid() bool { return v.c != nil }

// Get returns a copy of the value stored under key.
func (v View) Get(key string) (any, bool) {
	if v.c == nil {
		return nil, false
	}
	val, ok := v.c.data[key]
	if !ok {
		return nil, false
	}
	return cloneValue(val), true
}

// Data returns a deep copy of the payload.
func (v View) Data() map[string]any {
	if v.c == nil {
		return map[string]any{}
	}
	return v.c.Data()
}

func (v View) Keys() []string {
	if v.c == nil {
		return nil
	}
	return v.c.Keys()
}

func (v View) HasErrors() bool { return v.c != nil && v.c.HasErrors() }

func (v View) Errors() []BusinessError {
	if v.c == nil {
		return nil
	}
	return v.c.Errors()
}

func (v View) Exception() error {
	if v.c == nil {
		return nil
	}
	return v.c.Exception()
}

func (v View) Steps() []Step {
	if v.c == nil {
		return nil
	}
	return v.c.Steps()
}

func (v View) Status() Status {
	if v.c == nil {
		return StatusOK
	}
	return v.c.Status()
}

func (v View) Mode() Mode {
	if v.c == nil {
		return ModeMutable
	}
	return v.c.Mode()
}
