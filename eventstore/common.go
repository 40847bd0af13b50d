package eventstore

import (
	"errors"
	"regexp"
)

var (
	// ErrConcurrencyConflict is returned by Append when the filtered event stream moved past the expected sequence number.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyEventsTableName is returned when an engine is configured with an empty table name.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrInvalidEventsTableName is returned for table names that are not plain SQL identifiers.
	ErrInvalidEventsTableName = errors.New("events table name must be a plain sql identifier")

	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrCreatingSchemaFailed        = errors.New("creating events schema failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// ValidateTableName accepts plain identifiers only, since the engines interpolate the name into DDL.
func ValidateTableName(tableName string) error {
	if tableName == "" {
		return ErrEmptyEventsTableName
	}

	if !tableNamePattern.MatchString(tableName) {
		return ErrInvalidEventsTableName
	}

	return nil
}
