/*
Package modulink composes single-purpose processing steps ("links") into
chains with conditional routing and position-aware, observational middleware.

# Concept

A link is a named function from a domain.Context to a domain.Context. A
chain runs its links in declared order unless a connection, registered
with Connect, routes elsewhere: after each link the connections leaving it
are evaluated in registration order against the produced context, and the
first one satisfied wins.

Links report failures in two ways. A business error (Context.AddError) is
deliberate and routable. A returned error, a panic or a cancellation is an
unhandled exception: the chain records it in the context and keeps routing,
so a connection on domain.HasException() can send the run to a handler. Run
never fails because of a link.

Middleware observes every stage of a link execution

	chain_before -> link_before -> LINK -> link_after -> chain_after

through read-only views. It cannot change the context or the routing; its
errors are logged and reported, never propagated. Data a middleware wants
to keep goes to the run's Scratch.

# Usage

	// errorHandler is last in declared order, so it is guarded to be a no-op
	// when a successful run reaches it.
	chain, err := modulink.New(
		modulink.WithName("signup"),
		modulink.WithLinks(validateEmail, sendWelcome, link.When(domain.HasErrors(), errorHandler)),
		modulink.WithMiddleware(middleware.Timing()),
	)
	if err != nil {
		log.Fatal(err)
	}

	// error_handler runs instead of send_welcome when validation failed.
	if err := chain.Connect("validate_email", "error_handler", domain.HasErrors()); err != nil {
		log.Fatal(err)
	}

	out, err := chain.Run(ctx, domain.NewContext(map[string]any{"email": "a@b.com"}))
	if err != nil {
		log.Fatal(err)
	}
	if exc := out.Exception(); exc != nil {
		log.Printf("unhandled: %v", exc)
	}
*/
package modulink
