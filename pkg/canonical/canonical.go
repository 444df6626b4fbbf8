package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// maxDepth bounds recursion while canonicalizing. A payload nested deeper
// than this is treated as non-serializable, which also catches structures
// that reference themselves through pointers or interfaces.
const maxDepth = 256

// Canonicalize converts a structured value into one deterministic JSON byte
// sequence: object keys sorted lexicographically, numbers rendered in a
// fixed locale-independent form, no insignificant whitespace. The same
// logical value always produces identical bytes regardless of how it was
// constructed.
func Canonicalize(value any) ([]byte, error) {
	normalized, err := normalizeValue(value, 0)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := writeCanonical(&buffer, normalized, 0); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func normalizeValue(value any, depth int) (any, error) {
	if depth > maxDepth {
		return nil, &EncodingError{Message: "payload exceeds maximum nesting depth"}
	}

	switch typed := value.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return typed, nil
	case float32:
		if err := checkFloat(float64(typed)); err != nil {
			return nil, err
		}
		return typed, nil
	case float64:
		if err := checkFloat(typed); err != nil {
			return nil, err
		}
		return typed, nil
	case []any:
		result := make([]any, 0, len(typed))
		for _, item := range typed {
			normalizedItem, err := normalizeValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, normalizedItem)
		}
		return result, nil
	case map[string]any:
		result := make(map[string]any, len(typed))
		for key, item := range typed {
			normalizedItem, err := normalizeValue(item, depth+1)
			if err != nil {
				return nil, err
			}
			result[key] = normalizedItem
		}
		return result, nil
	case json.RawMessage:
		return decodeThroughJSON([]byte(typed), depth)
	default:
		payload, err := json.Marshal(typed)
		if err != nil {
			return nil, &EncodingError{
				Message: fmt.Sprintf("value of type %T cannot be canonically serialized", typed),
				Cause:   err,
			}
		}
		return decodeThroughJSON(payload, depth)
	}
}

func decodeThroughJSON(payload []byte, depth int) (any, error) {
	var parsed any
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, &EncodingError{
			Message: "failed to decode intermediate JSON form",
			Cause:   err,
		}
	}

	return normalizeValue(parsed, depth+1)
}

func checkFloat(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &EncodingError{Message: "NaN and infinite values cannot be canonically serialized"}
	}
	return nil
}

func writeCanonical(buffer *bytes.Buffer, value any, depth int) error {
	if depth > maxDepth {
		return &EncodingError{Message: "payload exceeds maximum nesting depth"}
	}

	switch typed := value.(type) {
	case nil:
		buffer.WriteString("null")
	case bool:
		if typed {
			buffer.WriteString("true")
		} else {
			buffer.WriteString("false")
		}
	case string:
		writeString(buffer, typed)
	case json.Number:
		buffer.WriteString(typed.String())
	case float32:
		buffer.WriteString(strconv.FormatFloat(float64(typed), 'g', -1, 32))
	case float64:
		buffer.WriteString(strconv.FormatFloat(typed, 'g', -1, 64))
	case int:
		buffer.WriteString(strconv.FormatInt(int64(typed), 10))
	case int8:
		buffer.WriteString(strconv.FormatInt(int64(typed), 10))
	case int16:
		buffer.WriteString(strconv.FormatInt(int64(typed), 10))
	case int32:
		buffer.WriteString(strconv.FormatInt(int64(typed), 10))
	case int64:
		buffer.WriteString(strconv.FormatInt(typed, 10))
	case uint:
		buffer.WriteString(strconv.FormatUint(uint64(typed), 10))
	case uint8:
		buffer.WriteString(strconv.FormatUint(uint64(typed), 10))
	case uint16:
		buffer.WriteString(strconv.FormatUint(uint64(typed), 10))
	case uint32:
		buffer.WriteString(strconv.FormatUint(uint64(typed), 10))
	case uint64:
		buffer.WriteString(strconv.FormatUint(typed, 10))
	case []any:
		buffer.WriteByte('[')
		for index, item := range typed {
			if index > 0 {
				buffer.WriteByte(',')
			}
			if err := writeCanonical(buffer, item, depth+1); err != nil {
				return err
			}
		}
		buffer.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		buffer.WriteByte('{')
		for index, key := range keys {
			if index > 0 {
				buffer.WriteByte(',')
			}
			writeString(buffer, key)
			buffer.WriteByte(':')
			if err := writeCanonical(buffer, typed[key], depth+1); err != nil {
				return err
			}
		}
		buffer.WriteByte('}')
	default:
		return &EncodingError{
			Message: fmt.Sprintf("unsupported canonical value type %T", typed),
		}
	}

	return nil
}

func writeString(buffer *bytes.Buffer, value string) {
	// json.Encoder with HTML escaping disabled, so '<', '>' and '&' are
	// carried verbatim and the output is stable across encoders.
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(value)
	// Encode appends a newline that has no place inside a value.
	buffer.Truncate(buffer.Len() - 1)
}
