/*
Package link provides constructors and reusable building blocks for chain links.

Every constructor returns a value implementing ports.Link, so synchronous
functions, asynchronous producers and composite links look the same to the
chain engine.

	validate := link.New("validate_email", func(ctx context.Context, c *domain.Context) (*domain.Context, error) {
		if _, ok := c.Get("email"); !ok {
			return c.AddError("Missing email", "VALIDATION_ERROR"), nil
		}
		return c, nil
	})

Utilities mirror the common steps of a processing pipeline: When, Transform,
SetValues, Filter, Parallel, Memoize and Validate.
*/
package link
