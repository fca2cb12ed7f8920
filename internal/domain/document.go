package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DocumentValuer is implemented by values whose stored form differs from their Go form
type DocumentValuer interface {
	DocumentValue() interface{}
}

// EncodeDocumentValue converts a field value to what the document store persists
func EncodeDocumentValue(v interface{}) interface{} {
	if dv, ok := v.(DocumentValuer); ok {
		return dv.DocumentValue()
	}
	return v
}

// DocString reads a string field, formatting non-string scalars
func DocString(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// DocStringPtr reads an optional string field; null and missing give nil
func DocStringPtr(data map[string]interface{}, key string) *string {
	if data[key] == nil {
		return nil
	}
	s := DocString(data, key)
	return &s
}

// DocFloat reads a numeric field. Numbers stored as text are parsed; anything else is 0.
func DocFloat(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// DocInt reads an integer field
func DocInt(data map[string]interface{}, key string) int64 {
	return int64(DocFloat(data, key))
}

// DocBool reads a boolean field
func DocBool(data map[string]interface{}, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// DocDate reads a date field without failing on bad input
func DocDate(data map[string]interface{}, key string) DateValue {
	return ParseDateValue(data[key])
}

// DocTime reads a timestamp field; unparseable or missing values give the zero time
func DocTime(data map[string]interface{}, key string) time.Time {
	t, err := NormalizeDate(data[key])
	if err != nil {
		return time.Time{}
	}
	return t
}

// DocMap reads a nested map field
func DocMap(data map[string]interface{}, key string) map[string]interface{} {
	if m, ok := data[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}
