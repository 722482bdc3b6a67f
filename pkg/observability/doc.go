// Package observability describes what happened during a chain run.
//
// A Report is assembled by the engine while it drives a run: one Visit per
// link executed, every middleware failure it swallowed, and a copy of the
// run's scratch so hosts can read what middleware recorded.
package observability
