// Package loader ingests mapper documents. Mappers are schema data produced
// by a code generator or written by hand; this package decodes a JSON or
// YAML document into the wiremap mapper model and a populated Registry.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"sigs.k8s.io/yaml"

	wiremap "github.com/wiremap/wiremap-go"
)

// Document is the on-disk form of a model set.
type Document struct {
	// Models maps composite class names to their definitions.
	Models map[string]*Node `json:"models"`
	// Discriminators maps a discriminator index, e.g. "Animal.Dog", to the
	// class name of the concrete subtype.
	Discriminators map[string]string `json:"discriminators,omitempty"`
}

// Node is one mapper definition inside a document.
type Node struct {
	// Type is the mapper's type tag: a scalar tag such as "Number" or
	// "DateTime", or one of "Enum", "Sequence", "Dictionary", "Composite".
	Type string `json:"type"`

	SerializedName string `json:"serializedName,omitempty"`
	Required       bool   `json:"required,omitempty"`
	Nullable       *bool  `json:"nullable,omitempty"`
	ReadOnly       bool   `json:"readOnly,omitempty"`
	IsConstant     bool   `json:"isConstant,omitempty"`
	DefaultValue   any    `json:"defaultValue,omitempty"`

	Constraints *ConstraintsNode `json:"constraints,omitempty"`

	XMLName        string `json:"xmlName,omitempty"`
	XMLElementName string `json:"xmlElementName,omitempty"`
	XMLIsAttribute bool   `json:"xmlIsAttribute,omitempty"`
	XMLIsWrapped   bool   `json:"xmlIsWrapped,omitempty"`

	ClassName                string                                 `json:"className,omitempty"`
	ModelProperties          *orderedmap.OrderedMap[string, *Node]  `json:"modelProperties,omitempty"`
	PolymorphicDiscriminator *DiscriminatorNode                     `json:"polymorphicDiscriminator,omitempty"`
	UberParent               string                                 `json:"uberParent,omitempty"`

	Element *Node `json:"element,omitempty"`
	Value   *Node `json:"value,omitempty"`

	HeaderCollectionPrefix string `json:"headerCollectionPrefix,omitempty"`

	AllowedValues []any `json:"allowedValues,omitempty"`
}

// ConstraintsNode is the document form of wiremap.Constraints; Pattern is a
// regular expression source string, compiled at load time.
type ConstraintsNode struct {
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	InclusiveMaximum *float64 `json:"inclusiveMaximum,omitempty"`
	InclusiveMinimum *float64 `json:"inclusiveMinimum,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	MinLength        *int     `json:"minLength,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`
}

// DiscriminatorNode accepts both discriminator forms: the bare legacy string
// and the object carrying distinct serialized and client names.
type DiscriminatorNode struct {
	SerializedName string `json:"serializedName"`
	ClientName     string `json:"clientName"`
}

func (d *DiscriminatorNode) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		d.SerializedName, d.ClientName = name, name
		return nil
	}
	type plain DiscriminatorNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DiscriminatorNode(p)
	return nil
}

// Load decodes a mapper document (JSON or YAML) and returns a registry
// holding every model and discriminator index entry it declares.
func Load(data []byte) (*wiremap.Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: could not decode mapper document: %v", wiremap.ErrSchema, err)
	}

	registry := wiremap.NewRegistry()
	compiled := make(map[string]*wiremap.Composite, len(doc.Models))
	for name, node := range doc.Models {
		m, err := Compile(node)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		composite, ok := m.(*wiremap.Composite)
		if !ok {
			return nil, fmt.Errorf("%w: model %q must be a composite, got type tag %q",
				wiremap.ErrSchema, name, node.Type)
		}
		if composite.ClassName == "" {
			composite.ClassName = name
		}
		if err := registry.Register(name, composite); err != nil {
			return nil, err
		}
		compiled[name] = composite
	}

	for index, className := range doc.Discriminators {
		composite, ok := compiled[className]
		if !ok {
			return nil, fmt.Errorf("%w: discriminator index %q names unknown class %q",
				wiremap.ErrSchema, index, className)
		}
		if err := registry.RegisterDiscriminator(index, composite); err != nil {
			return nil, err
		}
	}

	slog.Debug("loaded mapper document",
		"models", len(doc.Models), "discriminators", len(doc.Discriminators))
	return registry, nil
}

var kindTags = map[string]wiremap.Kind{
	"Number":          wiremap.KindNumber,
	"String":          wiremap.KindString,
	"Boolean":         wiremap.KindBoolean,
	"Object":          wiremap.KindObject,
	"Stream":          wiremap.KindStream,
	"Uuid":            wiremap.KindUUID,
	"Date":            wiremap.KindDate,
	"DateTime":        wiremap.KindDateTime,
	"DateTimeRfc1123": wiremap.KindDateTimeRFC1123,
	"UnixTime":        wiremap.KindUnixTime,
	"TimeSpan":        wiremap.KindTimeSpan,
	"ByteArray":       wiremap.KindByteArray,
	"Base64Url":       wiremap.KindBase64URL,
	"any":             wiremap.KindAny,
}

// Compile converts a single document node into a mapper.
func Compile(n *Node) (wiremap.Mapper, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: missing mapper node", wiremap.ErrSchema)
	}
	base, err := compileBase(n)
	if err != nil {
		return nil, err
	}

	switch n.Type {
	case "Composite":
		composite := &wiremap.Composite{
			Base:       base,
			ClassName:  n.ClassName,
			UberParent: n.UberParent,
		}
		if n.PolymorphicDiscriminator != nil {
			composite.Discriminator = &wiremap.Discriminator{
				SerializedName: n.PolymorphicDiscriminator.SerializedName,
				ClientName:     n.PolymorphicDiscriminator.ClientName,
			}
		}
		if n.ModelProperties != nil {
			props := wiremap.NewProperties()
			for pair := n.ModelProperties.Oldest(); pair != nil; pair = pair.Next() {
				pm, err := Compile(pair.Value)
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", pair.Key, err)
				}
				props.Set(pair.Key, pm)
			}
			composite.Properties = props
		}
		return composite, nil

	case "Sequence":
		if n.Element == nil {
			return nil, fmt.Errorf("%w: sequence node is missing its element", wiremap.ErrSchema)
		}
		element, err := Compile(n.Element)
		if err != nil {
			return nil, err
		}
		return &wiremap.Sequence{Base: base, Element: element}, nil

	case "Dictionary":
		if n.Value == nil {
			return nil, fmt.Errorf("%w: dictionary node is missing its value", wiremap.ErrSchema)
		}
		value, err := Compile(n.Value)
		if err != nil {
			return nil, err
		}
		return &wiremap.Dictionary{
			Base:                   base,
			Value:                  value,
			HeaderCollectionPrefix: n.HeaderCollectionPrefix,
		}, nil

	case "Enum":
		if len(n.AllowedValues) == 0 {
			return nil, fmt.Errorf("%w: enum node declares no allowed values", wiremap.ErrSchema)
		}
		return &wiremap.Enum{Base: base, AllowedValues: n.AllowedValues}, nil

	default:
		kind, ok := kindTags[n.Type]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type tag %q", wiremap.ErrSchema, n.Type)
		}
		return &wiremap.Primitive{Base: base, Kind: kind}, nil
	}
}

func compileBase(n *Node) (wiremap.Base, error) {
	base := wiremap.Base{
		SerializedName: n.SerializedName,
		Required:       n.Required,
		Nullable:       n.Nullable,
		ReadOnly:       n.ReadOnly,
		Constant:       n.IsConstant,
		DefaultValue:   n.DefaultValue,
		XML: wiremap.XMLMeta{
			Name:        n.XMLName,
			ElementName: n.XMLElementName,
			Attribute:   n.XMLIsAttribute,
			Wrapped:     n.XMLIsWrapped,
		},
	}
	if n.Constraints == nil {
		return base, nil
	}

	constraints := &wiremap.Constraints{
		ExclusiveMaximum: n.Constraints.ExclusiveMaximum,
		ExclusiveMinimum: n.Constraints.ExclusiveMinimum,
		InclusiveMaximum: n.Constraints.InclusiveMaximum,
		InclusiveMinimum: n.Constraints.InclusiveMinimum,
		MaxItems:         n.Constraints.MaxItems,
		MaxLength:        n.Constraints.MaxLength,
		MinItems:         n.Constraints.MinItems,
		MinLength:        n.Constraints.MinLength,
		MultipleOf:       n.Constraints.MultipleOf,
		UniqueItems:      n.Constraints.UniqueItems,
	}
	if n.Constraints.Pattern != "" {
		pattern, err := regexp.Compile(n.Constraints.Pattern)
		if err != nil {
			return wiremap.Base{}, fmt.Errorf("%w: invalid pattern %q: %v",
				wiremap.ErrSchema, n.Constraints.Pattern, err)
		}
		constraints.Pattern = pattern
	}
	base.Constraints = constraints
	return base, nil
}
