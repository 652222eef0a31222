// Package eventlog implements the bounded in-memory event log behind
// POST /api/events/log and GET /api/events.
//
// The log holds at most N events (100 in production), newest-first. Appending
// to a full log evicts the oldest entry as part of the same locked insert.
// Events are never mutated or individually deleted, and nothing is persisted
// across restarts.
//
// Readers get copies: Snapshot, Latest and CountByType never expose internal
// storage, so a reader's view cannot change under it.
package eventlog
