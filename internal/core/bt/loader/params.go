package loader

import (
	"fmt"
	"time"
)

func intParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch tv := v.(type) {
	case int:
		return tv, nil
	case int64:
		return int(tv), nil
	case float64:
		if tv != float64(int(tv)) {
			return 0, fmt.Errorf("param %s: %v is not an integer", key, tv)
		}
		return int(tv), nil
	default:
		return 0, fmt.Errorf("param %s: unsupported type %T", key, v)
	}
}

func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch tv := v.(type) {
	case float64:
		return tv, nil
	case int:
		return float64(tv), nil
	case int64:
		return float64(tv), nil
	default:
		return 0, fmt.Errorf("param %s: unsupported type %T", key, v)
	}
}

// durationParam accepts Go duration strings ("1.5s") or a number of
// milliseconds. Negative durations are rejected.
func durationParam(params map[string]any, key string) (time.Duration, error) {
	d, err := rawDuration(params, key)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("param %s: %v is negative", key, d)
	}
	return d, nil
}

func rawDuration(params map[string]any, key string) (time.Duration, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("param %s is required", key)
	}
	switch tv := v.(type) {
	case string:
		d, err := time.ParseDuration(tv)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(tv) * time.Millisecond, nil
	case float64:
		return time.Duration(tv * float64(time.Millisecond)), nil
	default:
		return 0, fmt.Errorf("param %s: unsupported type %T", key, v)
	}
}
