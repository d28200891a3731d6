package wiremap

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// xmlAttributeKey is the reserved synthetic key under which XML attributes
// are collected, matching common XML tree library conventions.
const xmlAttributeKey = "$"

func (s *Serializer) serializeComposite(m *Composite, value any, objectName string) (any, error) {
	active, err := s.resolvePolymorphic(m, value, objectName, false)
	if err != nil {
		return nil, err
	}
	props, err := s.modelProperties(active, objectName)
	if err != nil {
		return nil, err
	}
	object, ok := toStringMap(value)
	if !ok {
		return nil, &TypeError{ObjectName: objectName, Value: value, Expected: "an object"}
	}

	payload := map[string]any{}
	var replacement any // set by a flatten-into-self property

	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		key, pm := pair.Key, pair.Value
		pb := pm.base()
		if pb.ReadOnly {
			continue
		}

		toSerialize := object[key]
		propertyObjectName := objectName
		if pb.SerializedName != "" {
			propertyObjectName = objectName + "." + pb.SerializedName
		}

		if pb.SerializedName == "" {
			// Flatten-into-self: the property's value supplants the whole
			// payload (paging-style wrappers).
			v, err := s.Serialize(pm, toSerialize, propertyObjectName)
			if err != nil {
				return nil, err
			}
			if v != nil {
				replacement = v
			}
			continue
		}

		if s.xml {
			if err := s.serializeXMLProperty(payload, pm, toSerialize, propertyObjectName); err != nil {
				return nil, err
			}
			continue
		}

		// Walk the dotted path, materializing intermediate levels only when
		// the source property carries something to put there.
		segments := splitWireName(pb.SerializedName)
		propName := segments[len(segments)-1]
		parent := payload
		for _, segment := range segments[:len(segments)-1] {
			child, ok := parent[segment].(map[string]any)
			if !ok {
				if (isAbsent(toSerialize) || isNullValue(toSerialize)) &&
					pb.DefaultValue == nil && !pb.Constant {
					parent = nil
					break
				}
				child = map[string]any{}
				parent[segment] = child
			}
			parent = child
		}
		if parent == nil {
			continue
		}

		v, err := s.Serialize(pm, toSerialize, propertyObjectName)
		if err != nil {
			return nil, err
		}
		if v != nil {
			parent[propName] = v
		}
	}

	if replacement != nil {
		if rm, ok := replacement.(map[string]any); ok && len(payload) > 0 {
			for k, v := range payload {
				rm[k] = v
			}
			return rm, nil
		}
		return replacement, nil
	}
	return payload, nil
}

func (s *Serializer) serializeXMLProperty(payload map[string]any, pm Mapper, value any, objectName string) error {
	pb := pm.base()
	v, err := s.Serialize(pm, value, objectName)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	switch {
	case pb.XML.Attribute:
		name := pb.XML.Name
		if name == "" {
			name = pb.SerializedName
		}
		attrs, ok := payload[xmlAttributeKey].(map[string]any)
		if !ok {
			attrs = map[string]any{}
			payload[xmlAttributeKey] = attrs
		}
		attrs[name] = v

	case pb.XML.Wrapped:
		// { wireKey: { elementName: innerList } }
		name := pb.XML.Name
		if name == "" {
			name = pb.SerializedName
		}
		payload[name] = map[string]any{pb.XML.ElementName: v}

	default:
		name := pb.XML.ElementName
		if name == "" {
			name = pb.XML.Name
		}
		if name == "" {
			name = pb.SerializedName
		}
		payload[name] = v
	}
	return nil
}

func (s *Serializer) deserializeComposite(m *Composite, wire any, objectName string) (any, error) {
	active, err := s.resolvePolymorphic(m, wire, objectName, true)
	if err != nil {
		return nil, err
	}
	props, err := s.modelProperties(active, objectName)
	if err != nil {
		return nil, err
	}
	response, ok := toStringMap(wire)
	if !ok {
		// A bare wire value is still acceptable when a flatten-into-self
		// property consumes the whole response.
		hasSelf := false
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.base().SerializedName == "" {
				hasSelf = true
				break
			}
		}
		if !hasSelf {
			return nil, &TypeError{ObjectName: objectName, Value: wire, Expected: "an object"}
		}
		response = map[string]any{}
	}

	instance := map[string]any{}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		key, pm := pair.Key, pair.Value
		pb := pm.base()

		propertyObjectName := objectName
		if pb.SerializedName != "" {
			propertyObjectName = objectName + "." + pb.SerializedName
		}

		if dict, ok := pm.(*Dictionary); ok && dict.HeaderCollectionPrefix != "" {
			// Fold every prefixed wire key (prefix stripped) into the
			// dictionary, independent of XML/JSON mode.
			if dict.Value == nil {
				return nil, schemaErrorf("dictionary mapper for %s is missing its value mapper", propertyObjectName)
			}
			collected := map[string]any{}
			prefixed := lo.PickBy(response, func(k string, _ any) bool {
				return strings.HasPrefix(k, dict.HeaderCollectionPrefix)
			})
			for k, v := range prefixed {
				dv, err := s.Deserialize(dict.Value, v, propertyObjectName)
				if err != nil {
					return nil, err
				}
				collected[strings.TrimPrefix(k, dict.HeaderCollectionPrefix)] = dv
			}
			instance[key] = collected
			continue
		}

		if s.xml {
			v, err := s.deserializeXMLProperty(response, pm, propertyObjectName)
			if err != nil {
				return nil, err
			}
			if v != nil {
				instance[key] = v
			}
			continue
		}

		if pb.SerializedName == "" {
			// Flatten-into-self: the whole response feeds this property.
			v, err := s.Deserialize(pm, wire, objectName)
			if err != nil {
				return nil, err
			}
			if v != nil {
				instance[key] = v
			}
			continue
		}

		// Walk the dotted path down the response; a missing intermediate
		// level short-circuits to an absent value.
		var propertyValue any = response
		for _, segment := range splitWireName(pb.SerializedName) {
			level, ok := propertyValue.(map[string]any)
			if !ok {
				propertyValue = nil
				break
			}
			propertyValue = level[segment]
		}

		v, err := s.Deserialize(pm, propertyValue, propertyObjectName)
		if err != nil {
			return nil, err
		}
		if v != nil {
			instance[key] = v
		}
	}
	return instance, nil
}

func (s *Serializer) deserializeXMLProperty(response map[string]any, pm Mapper, objectName string) (any, error) {
	pb := pm.base()

	if pb.XML.Attribute {
		name := pb.XML.Name
		if name == "" {
			name = pb.SerializedName
		}
		var raw any
		if attrs, ok := response[xmlAttributeKey].(map[string]any); ok {
			raw = attrs[name]
		}
		return s.Deserialize(pm, raw, objectName)
	}

	if pb.XML.Wrapped {
		// { wireKey: { elementName: [...] } }: unwrap one level. A missing
		// wrapper reads as an empty list.
		name := pb.XML.Name
		if name == "" {
			name = pb.SerializedName
		}
		var unwrapped any
		if wrapper, ok := response[name].(map[string]any); ok {
			unwrapped = wrapper[pb.XML.ElementName]
		}
		if isAbsent(unwrapped) {
			unwrapped = []any{}
		}
		return s.Deserialize(pm, unwrapped, objectName)
	}

	name := pb.XML.ElementName
	if name == "" {
		name = pb.XML.Name
	}
	if name == "" {
		name = pb.SerializedName
	}
	return s.Deserialize(pm, response[name], objectName)
}

// resolvePolymorphic substitutes the concrete subtype mapper selected by the
// value's discriminator field when the active mapper declares one. The
// substitution is local to the call; stored schema data is never mutated. A
// discriminator value with no index entry keeps the base mapper.
func (s *Serializer) resolvePolymorphic(m *Composite, value any, objectName string, wireSide bool) (*Composite, error) {
	d := s.discriminatorFor(m)
	if d == nil {
		return m, nil
	}

	field := d.ClientName
	if wireSide {
		field = d.SerializedName
	}
	if field == "" {
		return nil, schemaErrorf("discriminator on %s has an empty field name", objectName)
	}

	object, ok := toStringMap(value)
	if !ok {
		return nil, &DiscriminatorError{ObjectName: objectName, Field: field}
	}
	raw, present := object[field]
	if !present || isAbsent(raw) || isNullValue(raw) {
		return nil, &DiscriminatorError{ObjectName: objectName, Field: field}
	}

	typeName := m.UberParent
	if typeName == "" {
		typeName = m.ClassName
	}
	discriminatorValue := fmt.Sprintf("%v", raw)
	index := discriminatorValue
	if discriminatorValue != typeName {
		index = typeName + "." + discriminatorValue
	}
	if sub, ok := s.registry.Discriminated(index); ok {
		return sub, nil
	}
	return m, nil
}

// discriminatorFor finds the discriminator declared on the mapper itself or,
// failing that, on its registered uber parent or class.
func (s *Serializer) discriminatorFor(m *Composite) *Discriminator {
	if m.Discriminator != nil {
		return m.Discriminator
	}
	if m.UberParent != "" {
		if parent, ok := s.registry.Model(m.UberParent); ok && parent.Discriminator != nil {
			return parent.Discriminator
		}
	}
	if m.ClassName != "" {
		if ref, ok := s.registry.Model(m.ClassName); ok {
			return ref.Discriminator
		}
	}
	return nil
}

// modelProperties resolves the active property set, consulting the registry
// for by-reference composites. An unresolvable or empty set is a
// configuration error, never an empty default.
func (s *Serializer) modelProperties(m *Composite, objectName string) (*Properties, error) {
	props := m.Properties
	if props == nil {
		if m.ClassName == "" {
			return nil, schemaErrorf("composite mapper for %s has neither model properties nor a class name", objectName)
		}
		ref, ok := s.registry.Model(m.ClassName)
		if !ok {
			return nil, schemaErrorf("class %q for %s is not registered", m.ClassName, objectName)
		}
		props = ref.Properties
	}
	if props == nil || props.Len() == 0 {
		return nil, schemaErrorf("composite mapper for %s resolves to no model properties", objectName)
	}
	return props, nil
}

// splitWireName splits a dotted serialized name into path segments. A
// backslash at the end of a segment escapes a literal dot, so "a.b\\.c"
// yields ["a", "b.c"].
func splitWireName(name string) []string {
	var segments []string
	var partial strings.Builder
	for _, part := range strings.Split(name, ".") {
		if strings.HasSuffix(part, `\`) {
			partial.WriteString(strings.TrimSuffix(part, `\`))
			partial.WriteString(".")
			continue
		}
		partial.WriteString(part)
		segments = append(segments, partial.String())
		partial.Reset()
	}
	return segments
}
