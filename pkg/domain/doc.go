/*
Package domain contains the core domain models of the keypad calculator.

It defines the vocabulary shared by the state machine and its hosts: key tokens,
state kinds, display values, serializable snapshots, sentinel errors and lifecycle
events. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - StateKind: Identifies which of the five machine states is active.
  - Value: What the calculator shows (a Number, in-progress text or the error sentinel).
  - Snapshot: A flat, serializable capture of the active state.
  - LifecycleHooks: Callbacks fired on transitions and forced errors.
*/
package domain
