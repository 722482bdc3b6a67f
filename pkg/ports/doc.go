/*
Package ports defines the capability interfaces of the ModuLink engine.

These interfaces decouple the chain runtime from concrete links, middleware and
storage backends, so each can be implemented, wrapped and tested on its own.

# Key Interfaces

  - Link: A named step transforming a Context.
  - Middleware: An observational before/after hook pair.
  - Cache: A key/value store for memoized link results (memory or Redis).
*/
package ports
