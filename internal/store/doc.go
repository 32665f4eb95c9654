// Package store persists dynasty data in SQLite.
//
// The Store owns the connection, schema initialization and busy retries. It
// exposes the lookups reconciliation reads (games by season, players and
// player seasons by dynasty) and the create calls the commit engine issues.
// The same create calls exist on Tx so a whole commit can run inside one
// transaction when configured.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package store
