package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aretw0/pomodoro/pkg/core"
)

// Query is a raw statement executed against the store session.
//
// The statement may reference $ns and $db, which are bound from the session.
// Every entry of Vars is bound by name; a core.RecordRef variable named "th"
// is bound as $th_tb and $th_id. Statements that return rows must return the
// columns tb, id and body, in that order.
type Query struct {
	SQL  string
	Vars map[string]any
}

// Execute runs a raw query and returns the documents it produced.
// It is the escape hatch for transitions a plain merge cannot express.
func (s *Store) Execute(ctx context.Context, q Query) (objs []core.Object, err error) {
	defer s.metrics.observe("execute", queryEntity(q.Vars), time.Now(), &err)

	args, err := s.bind(q.Vars)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, q.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	objs, err = scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return objs, nil
}

// queryEntity labels a query by the record bound as "th", if any.
func queryEntity(vars map[string]any) string {
	if ref, ok := vars["th"].(core.RecordRef); ok {
		return ref.Table
	}
	return ""
}

func (s *Store) bind(vars map[string]any) ([]any, error) {
	args := []any{
		sql.Named("ns", s.ses.Namespace),
		sql.Named("db", s.ses.Database),
	}
	for name, v := range vars {
		if ref, ok := v.(core.RecordRef); ok {
			args = append(args,
				sql.Named(name+"_tb", ref.Table),
				sql.Named(name+"_id", ref.Key),
			)
			continue
		}
		arg, err := encodeArg(v)
		if err != nil {
			return nil, err
		}
		args = append(args, sql.Named(name, arg))
	}
	return args, nil
}
