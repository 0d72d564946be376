/*
Package session implements calculator session management and persistence orchestration.

A session is a calculator whose current state lives in a ports.SessionStore. Every
action runs as load → apply → save while holding a per-session lock, so hosts can
serve one session from many goroutines (and, with a DistributedLocker, many replicas)
without losing updates.
*/
package session
