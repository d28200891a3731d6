package wiremap

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies a leaf scalar mapper type.
type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindString
	KindBoolean
	KindObject
	KindStream
	KindUUID
	KindDate
	KindDateTime
	KindDateTimeRFC1123
	KindUnixTime
	KindTimeSpan
	KindByteArray
	KindBase64URL
	KindAny
)

var kindNames = map[Kind]string{
	KindNumber:          "Number",
	KindString:          "String",
	KindBoolean:         "Boolean",
	KindObject:          "Object",
	KindStream:          "Stream",
	KindUUID:            "Uuid",
	KindDate:            "Date",
	KindDateTime:        "DateTime",
	KindDateTimeRFC1123: "DateTimeRfc1123",
	KindUnixTime:        "UnixTime",
	KindTimeSpan:        "TimeSpan",
	KindByteArray:       "ByteArray",
	KindBase64URL:       "Base64Url",
	KindAny:             "any",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Null is the explicit wire null. A plain nil interface value means "absent";
// the two are distinct states in the required/nullable contract.
type Null struct{}

// MarshalJSON renders the sentinel as a JSON null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Mapper is a schema node describing one value's wire shape and validation
// rules. The variant set is closed: Primitive, Enum, Sequence, Dictionary and
// Composite. Dispatch happens by type switch, never by tag-string comparison.
type Mapper interface {
	// base returns the attributes shared by every mapper variant.
	base() *Base

	sealedMapper()
}

// Base carries the attributes shared by all mapper variants.
type Base struct {
	// SerializedName is the wire key, or a dotted path to a nested wire
	// location. A literal dot inside a path segment is escaped with a
	// trailing backslash on that segment. The empty string is the
	// flatten-into-self marker on composite properties.
	SerializedName string

	Required bool
	// Nullable is tri-state: nil means unspecified, which reads as nullable
	// for optional values.
	Nullable *bool
	// ReadOnly properties are never placed on the wire when serializing.
	ReadOnly bool
	// Constant forces the value to DefaultValue when deserializing.
	Constant     bool
	DefaultValue any

	Constraints *Constraints

	XML XMLMeta
}

func (b *Base) base() *Base { return b }

func (b *Base) sealedMapper() {}

// XMLMeta holds the XML-mode naming hints of a mapper.
type XMLMeta struct {
	// Name is the element (or attribute) name on the wire.
	Name string
	// ElementName names the repeated child elements of a collection.
	ElementName string
	// Attribute marks the value as an XML attribute rather than an element.
	Attribute bool
	// Wrapped marks a collection represented as a container element holding
	// repeated children, versus repeated siblings.
	Wrapped bool
}

// Primitive is a leaf scalar mapper, identified by its Kind.
type Primitive struct {
	Base
	Kind Kind
}

// Enum restricts a value to an allowed set. Matching is case-insensitive for
// string members, but the matched value keeps its original casing.
type Enum struct {
	Base
	AllowedValues []any
}

// Sequence describes an ordered list; Element is the schema of each item.
type Sequence struct {
	Base
	Element Mapper
}

// Dictionary describes a string-keyed mapping; Value is the schema of each
// entry value.
type Dictionary struct {
	Base
	Value Mapper
	// HeaderCollectionPrefix folds every wire key carrying this literal
	// prefix (stripped) into the dictionary when deserializing a composite
	// property.
	HeaderCollectionPrefix string
}

// Discriminator selects the concrete subtype mapper governing a polymorphic
// object's shape. ClientName is the in-memory field read when serializing;
// SerializedName is the wire field read when deserializing.
type Discriminator struct {
	SerializedName string
	ClientName     string
}

// LegacyDiscriminator builds the discriminator for schemas that still carry
// the bare string form, where the wire and client field names coincide.
func LegacyDiscriminator(name string) *Discriminator {
	return &Discriminator{SerializedName: name, ClientName: name}
}

// Properties is an insertion-ordered set of named property mappers. Order is
// irrelevant for JSON output but significant for reproducible XML attribute
// ordering.
type Properties = orderedmap.OrderedMap[string, Mapper]

// NewProperties builds a property set preserving the given order.
func NewProperties(pairs ...orderedmap.Pair[string, Mapper]) *Properties {
	return orderedmap.New[string, Mapper](orderedmap.WithInitialData(pairs...))
}

// Prop pairs a property key with its mapper for NewProperties.
func Prop(key string, m Mapper) orderedmap.Pair[string, Mapper] {
	return orderedmap.Pair[string, Mapper]{Key: key, Value: m}
}

// Composite is an object-shaped mapper with named sub-properties.
//
// A Composite is either inline (Properties set) or by-reference (Properties
// nil, ClassName naming a Registry entry). By-reference composites are
// resolved through the Registry once per call; an unresolvable class is a
// configuration error, never an empty default.
type Composite struct {
	Base
	ClassName     string
	Properties    *Properties
	Discriminator *Discriminator
	// UberParent is the root type name of a discriminated hierarchy, used to
	// build discriminator index keys.
	UberParent string
}

// Bool returns a pointer to v, for the tri-state Nullable field.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for constraint bounds.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v, for constraint bounds.
func Float64(v float64) *float64 { return &v }
