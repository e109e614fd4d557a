/*
Package domain contains the core domain models of the interception protocol.

It defines the action vocabulary, the PRE/POST phases, handler result
semantics, trigger outcomes, and the typed errors the engine returns. This
package is kept pure and free of external dependencies like I/O or transport,
following Hexagonal Architecture principles.

# Key Entities

  - Action: a named built-in platform operation that handlers can intercept.
  - Phase: which side of the built-in action a handler runs on (PRE or POST).
  - PhaseResult: the engine's reading of a handler's resolved return value,
    where only the literal boolean false cancels.
  - Result: the terminal outcome of a trigger (completed, canceled or failed).
  - BusinessObject: the in-flight document (quote, contract, agreement, plan)
    an action operates on.
*/
package domain
