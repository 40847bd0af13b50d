// Package sweep runs the daily overdue report on a cron schedule.
//
// The sweep only reads: it builds the overdue-today report, logs a summary and records the
// number of overdue loans as a gauge. Fines are assessed at return time, never here.
package sweep
