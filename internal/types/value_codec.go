// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strconv"
)

// DecodeValue converts an untyped value, as produced by encoding/json or
// yaml.v3 decoding into any, into a Value of type t.
// Scalars are accepted for text types so that YAML such as `grade: 3.8`
// or `start: 2021` decodes without quoting.
func DecodeValue(t ValueType, raw any) (Value, error) {
	switch t {
	case TypeShortText:
		s, err := scalarString(raw)
		if err != nil {
			return nil, err
		}
		return ShortText(s), nil
	case TypeLongText:
		s, err := scalarString(raw)
		if err != nil {
			return nil, err
		}
		return LongText(s), nil
	case TypeTextList:
		return decodeTextList(raw)
	case TypeDateRange:
		return decodeDateRange(raw)
	default:
		return nil, fmt.Errorf("unsupported value type %q", t)
	}
}

// EncodeValue converts a Value into plain data for JSON or YAML output
func EncodeValue(v Value) any {
	switch val := v.(type) {
	case ShortText:
		return string(val)
	case LongText:
		return string(val)
	case TextList:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case DateRange:
		return map[string]string{"start": val.Start, "end": val.End}
	default:
		return nil
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("expected text, got null")
	default:
		return "", fmt.Errorf("expected text, got %T", raw)
	}
}

func decodeTextList(raw any) (Value, error) {
	switch v := raw.(type) {
	case string:
		return TextList{v}, nil
	case []string:
		out := make(TextList, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make(TextList, 0, len(v))
		for i, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of text, got %T", raw)
	}
}

func decodeDateRange(raw any) (Value, error) {
	var fields map[string]any
	switch v := raw.(type) {
	case map[string]any:
		fields = v
	case map[string]string:
		fields = make(map[string]any, len(v))
		for k, s := range v {
			fields[k] = s
		}
	case DateRange:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a date range object with start and end, got %T", raw)
	}

	var dr DateRange
	for key, value := range fields {
		if value == nil {
			continue
		}
		s, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "start":
			dr.Start = s
		case "end":
			dr.End = s
		default:
			return nil, fmt.Errorf("unexpected date range key %q", key)
		}
	}
	if err := dr.Check(); err != nil {
		return nil, err
	}
	return dr, nil
}
