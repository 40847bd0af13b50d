// Package sqliteengine stores circulation events in a single SQLite file.
//
// It is meant for single-node deployments and local development. Payload predicates are
// evaluated with json_extract, and the conditional append is a single INSERT ... SELECT
// guarded by the highest sequence number of the filtered stream, which SQLite runs atomically.
package sqliteengine
