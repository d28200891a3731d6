package wiremap

// Serializer marshals in-memory values to wire-format trees and back, driven
// entirely by mapper schemas. It holds no mutable state: a single instance is
// safe for concurrent use across independent calls.
type Serializer struct {
	registry *Registry
	xml      bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithXML selects XML conventions: attributes collected under the "$" key,
// wrapped collections, and the empty-list reading of absent unwrapped
// sequences. The default is JSON conventions.
func WithXML() Option {
	return func(s *Serializer) { s.xml = true }
}

// NewSerializer creates a serializer over the given registry. A nil registry
// is replaced by an empty one, which supports any schema that never reaches
// for a by-reference composite or a discriminator index entry.
func NewSerializer(registry *Registry, opts ...Option) *Serializer {
	if registry == nil {
		registry = NewRegistry()
	}
	s := &Serializer{registry: registry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize turns value into its wire-format representation according to m.
// objectName is used in error messages and defaults to the mapper's
// serialized name. An absent input stays absent unless the mapper declares a
// default; an explicit Null passes through once the nullable contract allows
// it.
func (s *Serializer) Serialize(m Mapper, value any, objectName string) (any, error) {
	b := m.base()
	if objectName == "" {
		objectName = b.SerializedName
	}

	if isAbsent(value) && (b.Constant || b.DefaultValue != nil) {
		value = b.DefaultValue
	}
	if err := checkAbsence(b, value, objectName); err != nil {
		return nil, err
	}
	if isAbsent(value) || isNullValue(value) {
		return value, nil
	}

	if err := b.Constraints.validate(value, objectName); err != nil {
		return nil, err
	}

	switch m := m.(type) {
	case *Primitive:
		return serializePrimitive(m, value, objectName)
	case *Enum:
		return serializeEnum(m, value, objectName)
	case *Sequence:
		return s.serializeSequence(m, value, objectName)
	case *Dictionary:
		return s.serializeDictionary(m, value, objectName)
	case *Composite:
		return s.serializeComposite(m, value, objectName)
	default:
		return nil, schemaErrorf("unknown mapper variant %T for %s", m, objectName)
	}
}

// Deserialize reconstructs an in-memory value from a wire-format tree
// according to m. In XML mode an absent unwrapped sequence is read as an
// empty list: XML cannot distinguish an empty list from a missing element,
// and the engine favors the empty-list interpretation. Constant mappers
// always decode to their declared default, whatever arrived on the wire.
func (s *Serializer) Deserialize(m Mapper, wire any, objectName string) (any, error) {
	b := m.base()
	if objectName == "" {
		objectName = b.SerializedName
	}

	if isAbsent(wire) && s.xml && !b.XML.Wrapped {
		if _, ok := m.(*Sequence); ok {
			wire = []any{}
		}
	}
	if isAbsent(wire) && (b.Constant || b.DefaultValue != nil) {
		wire = b.DefaultValue
	}
	if err := checkAbsence(b, wire, objectName); err != nil {
		return nil, err
	}

	var result any
	if isAbsent(wire) || isNullValue(wire) {
		result = wire
	} else {
		var err error
		switch m := m.(type) {
		case *Primitive:
			result, err = deserializePrimitive(m, wire, objectName)
		case *Enum:
			result = wire
		case *Sequence:
			result, err = s.deserializeSequence(m, wire, objectName)
		case *Dictionary:
			result, err = s.deserializeDictionary(m, wire, objectName)
		case *Composite:
			result, err = s.deserializeComposite(m, wire, objectName)
		default:
			err = schemaErrorf("unknown mapper variant %T for %s", m, objectName)
		}
		if err != nil {
			return nil, err
		}
	}

	if b.Constant {
		result = b.DefaultValue
	}
	return result, nil
}

// checkAbsence enforces the required/nullable contract. The four legal
// combinations are:
//
//	required, nullable        -> must supply Null, must not be absent
//	required, not nullable    -> must not be Null or absent
//	optional, nullable/unset  -> absence and Null both fine
//	optional, non-nullable    -> must not be exactly Null
func checkAbsence(b *Base, v any, objectName string) error {
	absent := isAbsent(v)
	null := isNullValue(v)

	switch {
	case b.Required && b.Nullable != nil && *b.Nullable:
		if absent {
			return &AbsenceError{ObjectName: objectName, Reason: "cannot be undefined"}
		}
	case b.Required:
		if absent || null {
			return &AbsenceError{ObjectName: objectName, Reason: "cannot be null or undefined"}
		}
	case b.Nullable != nil && !*b.Nullable:
		if null {
			return &AbsenceError{ObjectName: objectName, Reason: "cannot be null"}
		}
	}
	return nil
}
