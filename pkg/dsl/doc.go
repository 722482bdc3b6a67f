/*
Package dsl provides a fluent builder for modulink chains.

It lets a chain be declared top to bottom, with the connections and
link-scoped middleware of each link next to the link itself. Registration
errors are collected and returned by Build.

Example usage:

	chain, err := dsl.New("signup").
		Add(validateEmail).OnError("error_handler").Label("invalid").
		Then(sendWelcome).Use(middleware.Timing()).
		Then(link.When(domain.HasErrors(), errorHandler)).
		Chain().
		Use(middleware.Logging(logger)).
		Build()
*/
package dsl
