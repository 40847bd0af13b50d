// Package oteladapters implements the eventstore observability interfaces with OpenTelemetry.
//
// The circulation command handlers use the same interfaces, so one set of adapters
// instruments both the engines and the application layer.
package oteladapters
