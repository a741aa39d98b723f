package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Take removes the named field from obj and returns it converted to T.
//
// It fails with a PropertyNotFoundError when the field is absent and with a
// ValueNotOfTypeError when the value cannot be represented as T. The field is
// consumed in both cases so a conversion can finish with Exhausted.
//
// Supported targets: string, bool, int, int64, float64, []any, Object,
// time.Time and RecordRef. Any other T is matched by plain type assertion.
func Take[T any](obj Object, name string) (T, error) {
	var zero T
	raw, ok := obj[name]
	if !ok {
		return zero, &PropertyNotFoundError{Name: name}
	}
	delete(obj, name)
	return convert[T](raw)
}

// TakeOptional is like Take but treats an absent or null field as "no value".
// Documents written outside the store API spell an unset optional as null, so
// both forms decode to nil. Take still rejects null in a required field. A
// present value of the wrong type is still an error.
func TakeOptional[T any](obj Object, name string) (*T, error) {
	raw, ok := obj[name]
	if !ok {
		return nil, nil
	}
	delete(obj, name)
	if raw == nil {
		return nil, nil
	}
	v, err := convert[T](raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// TakeStrings removes an array field whose elements must all be text.
func TakeStrings(obj Object, name string) ([]string, error) {
	arr, err := Take[[]any](obj, name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, &ValueNotOfTypeError{Expected: "string"}
		}
		out = append(out, s)
	}
	return out, nil
}

// Exhausted fails when obj still holds fields no conversion consumed.
func Exhausted(obj Object) error {
	if len(obj) == 0 {
		return nil
	}
	return fmt.Errorf("unexpected properties: %s", strings.Join(obj.Keys(), ", "))
}

func convert[T any](raw any) (T, error) {
	var zero T
	var (
		out any
		ok  bool
	)

	switch any(zero).(type) {
	case string:
		out, ok = asString(raw)
	case bool:
		out, ok = raw.(bool)
	case int64:
		out, ok = asInt64(raw)
	case int:
		var n int64
		n, ok = asInt64(raw)
		out = int(n)
	case float64:
		out, ok = asFloat64(raw)
	case []any:
		out, ok = raw.([]any)
	case Object:
		out, ok = asObject(raw)
	case time.Time:
		out, ok = asTime(raw)
	case RecordRef:
		out, ok = asRecordRef(raw)
	default:
		out, ok = raw.(T)
	}

	if !ok {
		return zero, &ValueNotOfTypeError{Expected: typeName(zero)}
	}
	return out.(T), nil
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case Object:
		return "object"
	case time.Time:
		return "datetime"
	case RecordRef:
		return "record"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case RecordRef:
		return v.String(), true
	}
	return "", false
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

func asFloat64(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func asObject(raw any) (Object, bool) {
	switch v := raw.(type) {
	case Object:
		return v, true
	case map[string]any:
		return Object(v), true
	}
	return nil, false
}

func asTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		return t, err == nil
	}
	return time.Time{}, false
}

func asRecordRef(raw any) (RecordRef, bool) {
	switch v := raw.(type) {
	case RecordRef:
		return v, true
	case string:
		ref, err := ParseRecordRef(v)
		return ref, err == nil
	}
	return RecordRef{}, false
}
