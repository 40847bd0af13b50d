package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

const createSchemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number bigserial PRIMARY KEY,
	event_type text NOT NULL,
	occurred_at timestamp with time zone NOT NULL,
	payload jsonb NOT NULL,
	metadata jsonb NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS %[2]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[2]s_occurred_at_idx ON %[1]s (occurred_at);
CREATE INDEX IF NOT EXISTS %[2]s_payload_gin_idx ON %[1]s USING gin (payload jsonb_path_ops);
`

// CreateSchema creates the events table and its indexes if they do not exist.
// Running it repeatedly is safe. The table name was validated by WithTableName.
func (es EventStore) CreateSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(createSchemaTemplate, es.eventTableName, es.eventTableName)

	if _, err := es.db.Exec(ctx, ddl); err != nil {
		return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
	}

	return nil
}
