package auditlog

import (
	"time"
)

// Action is the kind of change an audit entry records.
type Action string

const (
	ActionInsert   Action = "INSERT"
	ActionUpdate   Action = "UPDATE"
	ActionDelete   Action = "DELETE"
	ActionBorrow   Action = "BORROW"
	ActionReturn   Action = "RETURN"
	ActionRejected Action = "REJECTED"
)

// Entry is one audit log line.
type Entry struct {
	AuditID   uint
	UserID    string
	Action    Action
	TableName string
	RecordID  string
	NewValues map[string]any
	Timestamp time.Time
}

// Entries represents the query result, newest first.
type Entries struct {
	Entries        []Entry
	Count          int
	SequenceNumber uint
}
