package application

import (
	"encoding/json"
	"errors"
	"fmt"
)

const maxCloneDepth = 64

var errCloneTooDeep = errors.New("value nested too deeply")

// cloneValue returns a structural copy of a JSON-shaped value that shares no
// maps or slices with v. Values that are not JSON-shaped are rejected.
func cloneValue(v any) (any, error) {
	return cloneAt(v, 0)
}

func cloneAt(v any, depth int) (any, error) {
	if depth > maxCloneDepth {
		return nil, errCloneTooDeep
	}

	switch typed := v.(type) {
	case nil, bool, string, float64, float32, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return typed, nil
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			cloned, err := cloneAt(item, depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = cloned
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			cloned, err := cloneAt(item, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = cloned
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
