package extract

import (
	"fmt"
	"strings"

	"github.com/segmentio/encoding/json"
)

// JSONSource extracts fields from a decoded JSON object. Specifiers are
// dot-separated key paths; list values are flattened in element order.
type JSONSource struct {
	doc map[string]interface{}
}

// NewJSONSource wraps an already-decoded object.
func NewJSONSource(doc map[string]interface{}) *JSONSource {
	return &JSONSource{doc: doc}
}

// ParseJSONSource decodes one JSON object.
func ParseJSONSource(data []byte) (*JSONSource, error) {
	var doc map[string]interface{}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &JSONSource{doc: doc}, nil
}

// Doc returns the underlying object, for converters that need more
// structure than flattened string values.
func (s *JSONSource) Doc() map[string]interface{} {
	return s.doc
}

// First implements FieldSource.
func (s *JSONSource) First(spec string) string {
	vals := s.All(spec)

	if len(vals) > 0 {
		return vals[0]
	}

	return ""
}

// All implements FieldSource.
func (s *JSONSource) All(spec string) []string {
	var cur interface{} = s.doc

	for _, key := range strings.Split(spec, ".") {
		obj, ok := cur.(map[string]interface{})
		if ok == false {
			return nil
		}

		cur, ok = obj[key]
		if ok == false {
			return nil
		}
	}

	return stringValues(cur)
}

func stringValues(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil

	case string:
		return []string{t}

	case []interface{}:
		var vals []string
		for _, item := range t {
			vals = append(vals, stringValues(item)...)
		}
		return vals

	case float64:
		// JSON numbers; render integers without exponent noise
		if t == float64(int64(t)) {
			return []string{fmt.Sprintf("%d", int64(t))}
		}
		return []string{fmt.Sprintf("%v", t)}

	case bool:
		return []string{fmt.Sprintf("%v", t)}

	default:
		return nil
	}
}
