package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Mode selects how a Context applies With* operations.
type Mode string

const (
	ModeMutable   Mode = "mutable"   // With* updates the receiver in place
	ModeImmutable Mode = "immutable" // With* returns a new Context
)

// Status is the terminal outcome described by a Context.
type Status string

const (
	StatusOK        Status = "ok"
	StatusError     Status = "error"     // at least one BusinessError
	StatusException Status = "exception" // link code failed unexpectedly
)

// Context is the data carrier passed into and returned from every link.
//
// A mutable Context is updated in place by Set and the With* methods.
// An immutable Context rejects Set/Delete with ErrImmutabilityViolation and
// every With* method returns a new Context that shares no mutable state
// with the receiver.
//
// A Context is owned by a single run and is not safe for concurrent use.
type Context struct {
	data      map[string]any
	steps     []Step
	errors    []BusinessError
	exception error
	immutable bool
}

// NewContext creates a mutable Context holding a copy of data.
func NewContext(data map[string]any) *Context {
	return &Context{data: cloneMap(data)}
}

// NewImmutable creates an immutable Context holding a copy of data.
func NewImmutable(data map[string]any) *Context {
	c := NewContext(data)
	c.immutable = true
	return c
}

// Mode reports the operating mode.
func (c *Context) Mode() Mode {
	if c.immutable {
		return ModeImmutable
	}
	return ModeMutable
}

// IsImmutable reports whether direct mutation is rejected.
func (c *Context) IsImmutable() bool { return c.immutable }

// Get returns the value stored under key. On an immutable context nested
// maps and slices are returned as copies.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.data[key]
	if ok && c.immutable {
		return cloneValue(v), true
	}
	return v, ok
}

// Data returns a deep copy of the business payload.
func (c *Context) Data() map[string]any { return cloneMap(c.data) }

// Keys returns the payload keys in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of payload keys.
func (c *Context) Len() int { return len(c.data) }

// Set stores value under key in place.
// It fails with ErrImmutabilityViolation on an immutable Context.
func (c *Context) Set(key string, value any) error {
	if c.immutable {
		return fmt.Errorf("set %q: %w", key, ErrImmutabilityViolation)
	}
	c.put(key, value)
	return nil
}

// Delete removes key in place.
// It fails with ErrImmutabilityViolation on an immutable Context.
func (c *Context) Delete(key string) error {
	if c.immutable {
		return fmt.Errorf("delete %q: %w", key, ErrImmutabilityViolation)
	}
	delete(c.data, key)
	return nil
}

// WithData stores value under key.
func (c *Context) WithData(key string, value any) *Context {
	t := c.target()
	t.put(key, t.own(value))
	return t
}

// WithResult merges partial into the payload; keys in partial win.
func (c *Context) WithResult(partial map[string]any) *Context {
	t := c.target()
	for k, v := range partial {
		t.put(k, t.own(v))
	}
	return t
}

// WithoutKeys removes the given keys from the payload.
func (c *Context) WithoutKeys(keys ...string) *Context {
	t := c.target()
	for _, k := range keys {
		delete(t.data, k)
	}
	return t
}

// StartStep opens a step named name.
func (c *Context) StartStep(name string) *Context {
	t := c.target()
	t.steps = append(t.steps, Step{Name: name, StartedAt: time.Now()})
	return t
}

// EndStep closes the most recent open step named name.
// Without a matching StartStep an unmatched step is recorded; its Duration is zero.
func (c *Context) EndStep(name string) *Context {
	t := c.target()
	now := time.Now()
	for i := len(t.steps) - 1; i >= 0; i-- {
		if t.steps[i].Name == name && t.steps[i].Open() {
			t.steps[i].EndedAt = now
			return t
		}
	}
	t.steps = append(t.steps, Step{Name: name, EndedAt: now})
	return t
}

// AddError records a business error.
func (c *Context) AddError(message, code string) *Context {
	t := c.target()
	t.errors = append(t.errors, BusinessError{Message: message, Code: code})
	return t
}

// ClearErrors drops every recorded business error.
func (c *Context) ClearErrors() *Context {
	t := c.target()
	t.errors = nil
	return t
}

// WithException records err as the unhandled exception. A nil err clears it.
func (c *Context) WithException(err error) *Context {
	t := c.target()
	t.exception = err
	return t
}

// ClearException drops the recorded exception.
func (c *Context) ClearException() *Context { return c.WithException(nil) }

// HasErrors reports whether any business error was recorded.
func (c *Context) HasErrors() bool { return len(c.errors) > 0 }

// Errors returns a copy of the recorded business errors.
func (c *Context) Errors() []BusinessError { return slices.Clone(c.errors) }

// Exception returns the recorded unhandled exception, if any.
func (c *Context) Exception() error { return c.exception }

// Steps returns a copy of the step history.
func (c *Context) Steps() []Step { return slices.Clone(c.steps) }

// Status derives the terminal outcome. An exception outranks business errors.
func (c *Context) Status() Status {
	switch {
	case c.exception != nil:
		return StatusException
	case len(c.errors) > 0:
		return StatusError
	default:
		return StatusOK
	}
}

// Clone returns an independent copy in the same mode.
func (c *Context) Clone() *Context {
	return &Context{
		data:      cloneMap(c.data),
		steps:     slices.Clone(c.steps),
		errors:    slices.Clone(c.errors),
		exception: c.exception,
		immutable: c.immutable,
	}
}

// ToMutable returns a mutable copy.
func (c *Context) ToMutable() *Context {
	out := c.Clone()
	out.immutable = false
	return out
}

// ToImmutable returns an immutable copy.
func (c *Context) ToImmutable() *Context {
	out := c.Clone()
	out.immutable = true
	return out
}

// View returns a read-only view of c.
func (c *Context) View() View { return View{c: c} }

type contextJSON struct {
	Data      map[string]any  `json:"data"`
	Steps     []Step          `json:"steps,omitempty"`
	Errors    []BusinessError `json:"errors,omitempty"`
	Exception string          `json:"exception,omitempty"`
	Status    Status          `json:"status"`
}

// MarshalJSON renders the payload together with its bookkeeping.
func (c *Context) MarshalJSON() ([]byte, error) {
	out := contextJSON{
		Data:   c.data,
		Steps:  c.steps,
		Errors: c.errors,
		Status: c.Status(),
	}
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	if c.exception != nil {
		out.Exception = c.exception.Error()
	}
	return json.Marshal(out)
}

// target is the Context a With* operation writes to.
func (c *Context) target() *Context {
	if c.immutable {
		return c.Clone()
	}
	return c
}

// own copies values entering an immutable Context so callers keep no alias.
func (c *Context) own(v any) any {
	if c.immutable {
		return cloneValue(v)
	}
	return v
}

func (c *Context) put(key string, value any) {
	if c.data == nil {
		c.data = make(map[string]any)
	}
	c.data[key] = value
}

// CloneData deep-copies a payload the way Data does.
func CloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return cloneMap(m)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
