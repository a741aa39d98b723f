package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/aretw0/pomodoro/pkg/core"
)

// encodeDocument renders a document as the JSON text stored in the body column.
func encodeDocument(obj core.Object) (string, error) {
	if obj == nil {
		obj = core.Object{}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(b), nil
}

// decodeDocument parses a stored body back into a document.
// Numbers are decoded as json.Number first so large integers keep their precision.
func decodeDocument(body string) (core.Object, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return normalize(raw).(core.Object), nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		obj := make(core.Object, len(val))
		for k, item := range val {
			obj[k] = normalize(item)
		}
		return obj
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

// encodeArg converts a query variable into something the driver can bind.
func encodeArg(v any) (any, error) {
	switch val := v.(type) {
	case core.Object, map[string]any, []any, []string:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query variable: %w", err)
		}
		return string(b), nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	case core.RecordRef:
		return val.String(), nil
	default:
		return v, nil
	}
}
