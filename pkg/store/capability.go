package store

import "github.com/aretw0/pomodoro/pkg/core"

// Creatable is implemented by payloads that can be inserted as new records.
// CreateDocument must return a complete document: every server-owned default
// (creation timestamp, flags, empty collections) is synthesized here. The record
// key is assigned by the store, so any "id" field is ignored.
type Creatable interface {
	CreateDocument() core.Object
}

// Patchable is implemented by payloads that can be merged into existing records.
// PatchDocument must only contain the fields the caller supplied. Absent fields
// are left out entirely, never written as null.
type Patchable interface {
	PatchDocument() core.Object
}
