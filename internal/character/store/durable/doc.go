// Package durable holds the backends that keep the serialized character
// record across restarts. Each backend is a plain key-value store: one key,
// one JSON document, last write wins.
//
// Backends:
//   - InMemory: process lifetime only, used by tests and demos.
//   - SQL: SQLite (on-device file, the default) or PostgreSQL.
//   - Redis: a single string key.
//
// A missing key is reported as sentinel.ErrNotFound.
package durable
