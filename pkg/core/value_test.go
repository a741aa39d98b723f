package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pomodoro/pkg/core"
)

func TestParseRecordRef(t *testing.T) {
	ref, err := core.ParseRecordRef("task:01hx")
	require.NoError(t, err)
	assert.Equal(t, "task", ref.Table)
	assert.Equal(t, "01hx", ref.Key)
	assert.Equal(t, "task:01hx", ref.String())

	for _, bad := range []string{"", "task", ":key", "task:"} {
		_, err := core.ParseRecordRef(bad)
		assert.True(t, core.IsValueNotOfType(err), "expected type error for %q", bad)
	}
}

func TestObject_KeysSorted(t *testing.T) {
	obj := core.Object{"c": 1, "a": 2, "b": 3}
	assert.Equal(t, []string{"a", "b", "c"}, obj.Keys())
}

func TestObject_Clone(t *testing.T) {
	obj := core.Object{"a": 1}
	clone := obj.Clone()
	delete(clone, "a")
	assert.Contains(t, obj, "a")
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "intent_archived", core.EventName("intent", core.ActionArchived))
}
