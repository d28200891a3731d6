package wiremap

import (
	"reflect"
)

func (s *Serializer) serializeSequence(m *Sequence, value any, objectName string) (any, error) {
	if m.Element == nil {
		return nil, schemaErrorf("sequence mapper for %s is missing its element mapper", objectName)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "an array"}
	}
	out := make([]any, rv.Len())
	for i := range out {
		v, err := s.Serialize(m.Element, rv.Index(i).Interface(), objectName)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Serializer) deserializeSequence(m *Sequence, wire any, objectName string) (any, error) {
	if m.Element == nil {
		return nil, schemaErrorf("sequence mapper for %s is missing its element mapper", objectName)
	}
	list, ok := toSlice(wire)
	if !ok {
		// XML readers collapse a singleton list to the bare element.
		list = []any{wire}
	}
	out := make([]any, len(list))
	for i, item := range list {
		v, err := s.Deserialize(m.Element, item, objectName)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Serializer) serializeDictionary(m *Dictionary, value any, objectName string) (any, error) {
	if m.Value == nil {
		return nil, schemaErrorf("dictionary mapper for %s is missing its value mapper", objectName)
	}
	entries, ok := toStringMap(value)
	if !ok {
		return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "an object"}
	}
	out := make(map[string]any, len(entries))
	for key, v := range entries {
		sv, err := s.Serialize(m.Value, v, objectName+"."+key)
		if err != nil {
			return nil, err
		}
		out[key] = sv
	}
	return out, nil
}

func (s *Serializer) deserializeDictionary(m *Dictionary, wire any, objectName string) (any, error) {
	if m.Value == nil {
		return nil, schemaErrorf("dictionary mapper for %s is missing its value mapper", objectName)
	}
	entries, ok := toStringMap(wire)
	if !ok {
		return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "an object"}
	}
	out := make(map[string]any, len(entries))
	for key, v := range entries {
		dv, err := s.Deserialize(m.Value, v, objectName)
		if err != nil {
			return nil, err
		}
		out[key] = dv
	}
	return out, nil
}
