package sqliteengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

var createSchemaTemplates = []string{
	`CREATE TABLE IF NOT EXISTS %[1]s (
		sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		payload TEXT NOT NULL CHECK (json_valid(payload)),
		metadata TEXT NOT NULL DEFAULT '{}' CHECK (json_valid(metadata))
	)`,
	`CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type)`,
	`CREATE INDEX IF NOT EXISTS %[1]s_occurred_at_idx ON %[1]s (occurred_at)`,
}

// CreateSchema creates the events table and its indexes if they do not exist.
func (es EventStore) CreateSchema(ctx context.Context) error {
	for _, template := range createSchemaTemplates {
		if _, err := es.db.Exec(ctx, fmt.Sprintf(template, es.eventTableName)); err != nil {
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}
