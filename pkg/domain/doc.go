/*
Package domain contains the core data model of the ModuLink chain engine.

It defines the values that flow through a run and the metadata that describes
a chain, free of any execution logic, I/O or persistence.

# Key Entities

  - Context: The data carrier passed into and returned from every link. It
    holds the business payload, the step history, business errors and the
    unhandled exception slot, in mutable or immutable mode.
  - View: A read-only window on a Context handed to middleware and conditions.
  - Condition: A predicate over a View that decides whether a connection is taken.
  - Scratch: The per-run side channel shared by middleware.
  - HookEvent / Placement: What a middleware observes and where it is attached.
  - Snapshot: The structural description of a chain returned by Inspect.
*/
package domain
