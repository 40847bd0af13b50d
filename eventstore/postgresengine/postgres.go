package postgresengine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/eventstore/internal/adapters"
	"github.com/AntonStoeckl/library-circulation/eventstore/internal/instrumentation"
)

const (
	engineName            = "postgres"
	defaultEventTableName = "events"
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
	cteContext            = "context"
	cteVals               = "vals"
	dialectPostgres       = "postgres"
	aliasMaxSeq           = "max_seq"
	castText              = "?::text"
	castTimestamp         = "?::timestamp with time zone"
	castJsonb             = "?::jsonb"
	containsJsonb         = "payload @> ?::jsonb"
	lockTableTemplate     = "LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE"
)

type sqlQueryString = string

// EventStore is the PostgreSQL engine.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	instr          instrumentation.Instrumentation
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
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
		instrumentation.AttrOperation:   instrumentation.OperationQuery,
		instrumentation.AttrConsistency: eventstore.GetConsistencyLevel(ctx).String(),
	})
	start := time.Now()

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.instr.Failed(ctx, span, instrumentation.OperationQuery, buildQueryErr, time.Since(start))
		return nil, 0, buildQueryErr
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
		occurredAt     time.Time
		payload        []byte
		metadata       []byte
		sequenceNumber eventstore.MaxSequenceNumberUint
	)

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); err != nil {
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
		if buildErr != nil {
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		eventStream = append(eventStream, event.WithSequenceNumber(sequenceNumber))
		maxSequenceNumber = sequenceNumber
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or more events atomically, but only if the "dynamic event stream" selected by filter
// has not moved past expectedMaxSequenceNumber. Otherwise it returns eventstore.ErrConcurrencyConflict.
//
// The filter must be the one used for the Query the decision was based on.
//
// The guarded insert runs in a transaction that first takes a SHARE ROW EXCLUSIVE lock on the table.
// That lock conflicts with itself, so appends are serialized and each guard sees every committed append,
// while plain reads are not blocked.
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
		instrumentation.AttrEventCount:  fmt.Sprint(len(allEvents)),
		instrumentation.AttrEventType:   event.EventType,
		instrumentation.AttrExpectedSeq: fmt.Sprint(expectedMaxSequenceNumber),
	})
	start := time.Now()

	sqlQuery, buildQueryErr := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.instr.Failed(ctx, span, instrumentation.OperationAppend, buildQueryErr, time.Since(start))
		return buildQueryErr
	}

	result, execErr := es.db.ExecInTx(ctx, es.lockTableStatement(), sqlQuery)
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

// lockTableStatement interpolates the table name, which was validated by WithTableName.
func (es EventStore) lockTableStatement() sqlQueryString {
	return fmt.Sprintf(lockTableTemplate, es.eventTableName)
}

func (es EventStore) buildAppendQuery(
	allEvents eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	if len(allEvents) == 1 {
		return es.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildContextCTE(builder goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return addWhereClause(filter, cteStmt)
}

func (es EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	// one SELECT per event, combined with UNION ALL so the sequence follows slice order
	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
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
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause renders the filter. Items are OR-ed, event types inside an item are OR-ed,
// and predicates are AND-ed or OR-ed depending on how the item was built.
// Predicates become jsonb containment checks, so they can use the GIN index on payload.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				containment, err := json.Marshal(map[string]string{predicate.Key(): predicate.Val()})
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, string(containment)))
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
		return selectStmt, nil
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}
