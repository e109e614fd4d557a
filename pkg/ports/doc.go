/*
Package ports defines the driven ports (interfaces) for the interception
engine.

These interfaces decouple the protocol core from external implementations,
allowing the engine to work with various configuration sources, CRM
transports, caches and record stores.

# Key Interfaces

  - ActionRunner: executes a built-in platform action (injected by the host).
  - ConfigSource: resolves dot-delimited paths against the base configuration.
  - CRMTransport: carries outbound calls to the surrounding CRM.
  - CacheStore / SessionStore: persistence for payload caching and sessions.
  - RecordSource: loads interceptor configuration records.
*/
package ports
