package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	_ "modernc.org/sqlite" // driver registration

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation/eventstore/internal/instrumentation"
)

const (
	engineName            = "sqlite"
	driverName            = "sqlite"
	defaultEventTableName = "events"
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
	aliasVals             = "vals"
	dialectSQLite         = "sqlite3"
	jsonExtractEquals     = "json_extract(payload, ?) = ?"
	guardExpectedSequence = "(?) = ?"
	occurredAtLayout      = time.RFC3339Nano
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA busy_timeout = 5000;",
	"PRAGMA synchronous = NORMAL;",
}

// EventStore is the SQLite engine.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	instr          instrumentation.Instrumentation
}

// Open opens (and creates if needed) the SQLite file at path with WAL enabled.
// The pool is limited to one connection, so writers never wait on SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path must not be empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	return db, nil
}

// NewEventStoreFromSQLDB creates a new EventStore on top of a modernc sqlite connection.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             adapters.NewSQLAdapter(db),
		eventTableName: defaultEventTableName,
		instr:          instrumentation.Instrumentation{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// Query returns the events selected by filter in sequence order,
// together with the highest sequence number of this "dynamic event stream".
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, span := es.instr.StartSpan(ctx, instrumentation.SpanNameQuery, map[string]string{
		instrumentation.AttrOperation: instrumentation.OperationQuery,
	})
	start := time.Now()

	sqlQuery, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		es.instr.Failed(ctx, span, instrumentation.OperationQuery, buildErr, time.Since(start))
		return nil, 0, buildErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.instr.LogSQL(ctx, instrumentation.OperationQuery, sqlQuery, time.Since(start))

	if queryErr != nil {
		err := errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
		es.instr.Failed(ctx, span, instrumentation.OperationQuery, err, time.Since(start))

		return nil, 0, err
	}

	eventStream, maxSequenceNumber, scanErr := scanEvents(rows)
	_ = rows.Close()

	if scanErr != nil {
		es.instr.Failed(ctx, span, instrumentation.OperationQuery, scanErr, time.Since(start))
		return nil, 0, scanErr
	}

	es.instr.QuerySucceeded(ctx, span, len(eventStream), maxSequenceNumber, time.Since(start))

	return eventStream, maxSequenceNumber, nil
}

func scanEvents(rows adapters.DBRows) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error) {
	var (
		eventType      string
		occurredAt     string
		payload        []byte
		metadata       []byte
		sequenceNumber int64
	)

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); err != nil {
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		occurredAtTime, parseErr := time.Parse(occurredAtLayout, occurredAt)
		if parseErr != nil {
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, parseErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAtTime, payload, metadata)
		if buildErr != nil {
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
		eventStream = append(eventStream, event.WithSequenceNumber(maxSequenceNumber))
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or more events atomically, but only if the "dynamic event stream" selected by filter
// has not moved past expectedMaxSequenceNumber. Otherwise it returns eventstore.ErrConcurrencyConflict.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	ctx, span := es.instr.StartSpan(ctx, instrumentation.SpanNameAppend, map[string]string{
		instrumentation.AttrOperation:   instrumentation.OperationAppend,
		instrumentation.AttrEventCount:  strconv.Itoa(len(allEvents)),
		instrumentation.AttrEventType:   event.EventType,
		instrumentation.AttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	})
	start := time.Now()

	sqlQuery, buildErr := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildErr != nil {
		es.instr.Failed(ctx, span, instrumentation.OperationAppend, buildErr, time.Since(start))
		return buildErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery)
	es.instr.LogSQL(ctx, instrumentation.OperationAppend, sqlQuery, time.Since(start))

	if execErr != nil {
		err := errors.Join(eventstore.ErrAppendingEventFailed, execErr)
		es.instr.Failed(ctx, span, instrumentation.OperationAppend, err, time.Since(start))

		return err
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		err := errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
		es.instr.Failed(ctx, span, instrumentation.OperationAppend, err, time.Since(start))

		return err
	}

	if rowsAffected < int64(len(allEvents)) {
		es.instr.AppendConflicted(ctx, span, expectedMaxSequenceNumber, rowsAffected, time.Since(start))
		return eventstore.ErrConcurrencyConflict
	}

	es.instr.AppendSucceeded(ctx, span, len(allEvents), time.Since(start))

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildAppendQuery renders
//
//	INSERT INTO events (...) SELECT vals.* FROM (SELECT ... UNION ALL SELECT ...) AS vals
//	WHERE (SELECT COALESCE(MAX(sequence_number), 0) FROM events WHERE <filter>) = <expected>
func (es EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (string, error) {

	builder := goqu.Dialect(dialectSQLite)

	guardStmt := addWhereClause(
		filter,
		builder.From(es.eventTableName).Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0)),
	)

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.V(event.EventType).As(colEventType),
			goqu.V(event.OccurredAt.UTC().Format(occurredAtLayout)).As(colOccurredAt),
			goqu.V(string(event.PayloadJSON)).As(colPayload),
			goqu.V(string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(
			builder.From(valuesStmt.As(aliasVals)).
				Select(
					goqu.T(aliasVals).Col(colEventType),
					goqu.T(aliasVals).Col(colOccurredAt),
					goqu.T(aliasVals).Col(colPayload),
					goqu.T(aliasVals).Col(colMetadata),
				).
				Where(goqu.L(guardExpectedSequence, guardStmt, expectedMaxSequenceNumber)),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause renders the filter with json_extract lookups. The JSON path quotes the key,
// so keys with dots or spaces address a single top-level member.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				path := "$." + strconv.Quote(predicate.Key())
				predicateExpressions = append(predicateExpressions, goqu.L(jsonExtractEquals, path, predicate.Val()))
			}

			var predicatesExpressionList exp.ExpressionList
			if item.AllPredicatesMustMatch() {
				predicatesExpressionList = goqu.And(predicateExpressions...)
			} else {
				predicatesExpressionList = goqu.Or(predicateExpressions...)
			}

			itemExpressions = append(itemExpressions, predicatesExpressionList)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	if len(itemsExpressions) == 0 {
		return selectStmt
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...))
}
