// Package middleware provides ready-made observers for modulink chains.
//
// Every middleware here implements ports.Middleware and only reads the
// HookEvent it is given. Anything it wants to carry from a before hook to
// the matching after hook goes through the event's Scratch, so concurrent
// runs never share state.
package middleware
