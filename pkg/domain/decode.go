package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode copies the payload into out (a pointer to a struct or map).
// Field names follow "mapstructure" tags; scalar types are converted loosely
// ("42" decodes into an int field).
func (c *Context) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(c.Data()); err != nil {
		return fmt.Errorf("failed to decode context data: %w", err)
	}
	return nil
}
