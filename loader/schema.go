package loader

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DocumentJSONSchema generates a JSON Schema describing the mapper document
// format, for validating hand-written documents before loading them.
func DocumentJSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(orderedmap.OrderedMap[string, *Node]{}):
				// Property order is carried by the JSON object itself.
				return &jsonschema.Schema{Type: "object"}
			case reflect.TypeOf(DiscriminatorNode{}):
				// Both discriminator forms are accepted on disk.
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "string"},
					{Type: "object"},
				}}
			}
			return nil
		},
	}

	schema, err := r.ReflectFromType(reflect.TypeOf(Document{})).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to create json schema for mapper documents: %w", err)
	}
	return schema, nil
}
