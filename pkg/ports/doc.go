/*
Package ports defines the driven ports (interfaces) around the Turing machine core.

These interfaces decouple the engine from external implementations, allowing
machines to be read from various sources and runs to be persisted in various
backends.

# Key Interfaces

  - TableLoader: Retrieves machine definitions by name (e.g., from Loam, files or memory).
  - RunStore: Persists and loads evaluation runs.
  - DistributedLocker: Provides distributed locking for concurrent access to the same key.
*/
package ports
