/*
Package ports defines the driven ports (interfaces) for keypad hosts.

These interfaces decouple session handling from external implementations,
allowing calculator sessions to live in memory, on disk, in Redis or anywhere else.

# Key Interfaces

  - SessionStore: Persists the current state Snapshot of each calculator session.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
