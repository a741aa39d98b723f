// Package model defines the domain entities and their controllers.
//
// Every entity is stored as a document in its own table. Controllers are
// stateless: each call receives an *app.Ctx carrying the shared store and the
// event emitter, and every successful mutation emits "<entity>_<action>".
package model

import (
	"strconv"
	"time"

	"github.com/aretw0/pomodoro/pkg/core"
	"github.com/aretw0/pomodoro/pkg/store"
	"github.com/aretw0/pomodoro/pkg/typed"
)

// DeleteResult is returned by every delete operation.
type DeleteResult = typed.DeleteResult

// now returns the current time as a millisecond epoch string, the timestamp
// format every entity stores.
var now = func() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

const archiveSQL = `
UPDATE records SET body = json_set(body, '$.archived_at', $timestamp)
WHERE ns = $ns AND db = $db AND tb = $th_tb AND id = $th_id
RETURNING tb, id, body`

const unarchiveSQL = `
UPDATE records SET body = json_remove(body, '$.archived_at')
WHERE ns = $ns AND db = $db AND tb = $th_tb AND id = $th_id
RETURNING tb, id, body`

func archiveMutation() typed.Mutation {
	return typed.QueryMutation(store.Query{
		SQL:  archiveSQL,
		Vars: map[string]any{"timestamp": now()},
	})
}

func unarchiveMutation() typed.Mutation {
	return typed.QueryMutation(store.Query{SQL: unarchiveSQL})
}

func tags(values []string) []any {
	if values == nil {
		return []any{}
	}
	return core.Strings(values)
}
