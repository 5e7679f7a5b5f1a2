package observability

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type queryStartKey struct{}

type queryStart struct {
	operation string
	at        time.Time
}

// QueryTracer feeds pgx query timings into the database metrics of the
// global provider. Queries issued before metrics are initialized are dropped.
type QueryTracer struct {
	now func() time.Time
}

// NewQueryTracer creates a tracer for database.WithQueryTracer
func NewQueryTracer() *QueryTracer {
	return &QueryTracer{now: time.Now}
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		operation: sqlOperation(data.SQL),
		at:        t.now(),
	})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	GetMetrics().RecordDatabaseQuery(start.operation, t.now().Sub(start.at), data.Err)
}

// sqlOperation returns the lowercased leading keyword of a statement
func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
