package typed

import (
	"context"
	"fmt"

	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/store"
)

// MutationKind tells how a Mutation reaches the store.
type MutationKind int

const (
	// KindMerge patches the present fields of a payload into the record.
	KindMerge MutationKind = iota
	// KindQuery runs a raw statement and takes its first row.
	KindQuery
)

func (k MutationKind) String() string {
	switch k {
	case KindMerge:
		return "merge"
	case KindQuery:
		return "query"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// Mutation is a state change applied to a single record.
type Mutation struct {
	kind  MutationKind
	patch store.Patchable
	query store.Query
}

// MergeMutation merges patch into the record.
func MergeMutation(patch store.Patchable) Mutation {
	return Mutation{kind: KindMerge, patch: patch}
}

// QueryMutation runs q, used for transitions a merge cannot express such as
// removing a field. The record being changed is bound as the "th" variable
// when q does not bind it itself.
func QueryMutation(q store.Query) Mutation {
	return Mutation{kind: KindQuery, query: q}
}

// Kind returns how the mutation is applied.
func (m Mutation) Kind() MutationKind {
	return m.kind
}

func (m Mutation) apply(ctx context.Context, s *store.Store, id string) (core.Object, error) {
	switch m.kind {
	case KindMerge:
		return s.Merge(ctx, id, m.patch)
	case KindQuery:
		ref, err := core.ParseRecordRef(id)
		if err != nil {
			return nil, err
		}

		vars := make(map[string]any, len(m.query.Vars)+1)
		vars["th"] = ref
		for k, v := range m.query.Vars {
			vars[k] = v
		}

		objs, err := s.Execute(ctx, store.Query{SQL: m.query.SQL, Vars: vars})
		if err != nil {
			return nil, err
		}
		if len(objs) == 0 {
			return nil, &core.StoreFailToCreateError{Cause: fmt.Sprintf("can't update %s, nothing returned.", id)}
		}
		return objs[0], nil
	default:
		return nil, fmt.Errorf("unsupported mutation kind %s", m.kind)
	}
}
